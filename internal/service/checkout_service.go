package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=checkout_service.go -destination=mock/order_event_publisher.go -package=mock_service

// IOrderEventPublisher 結帳成功後通知下游
type IOrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *model.OrderPlacedEvent) error
}

type ICheckoutService interface {
	Checkout(ctx context.Context, userID uint, cart model.Cart) (*model.Order, error)
}

type CheckoutService struct {
	store     db.ITxStore
	publisher IOrderEventPublisher
	logger    *zerolog.Logger
}

// publisher 可為 nil, 代表不發事件
func NewCheckoutService(store db.ITxStore, publisher IOrderEventPublisher, logger *zerolog.Logger) ICheckoutService {
	if store == nil {
		panic("store is nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &CheckoutService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout 將購物車轉成訂單, 訂單/明細/扣庫存在同一個交易內
//
//   - 購物車為空: ErrEmptyCart, 不寫入任何資料
//   - 商品已不存在: 該行略過, 不回錯誤
//   - 庫存不檢查是否足夠, 扣到 0 為止; 金額仍以購物車數量計算
//   - 任何寫入失敗: 整筆 rollback, 回傳 ErrPersistence, 購物車保持原狀
//
// 成功後清空傳入的 cart, 寫回 session 由呼叫端負責
func (c *CheckoutService) Checkout(ctx context.Context, userID uint, cart model.Cart) (*model.Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	var order *model.Order
	err := c.store.ExecTx(ctx, func(store db.IStore) error {
		order = &model.Order{
			UserID: userID,
			Total:  decimal.Zero,
		}
		// 先拿到 order id, 明細才能關聯
		if err := store.CreateOrder(ctx, order); err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(cart))
		for _, pid := range cart.ProductIDs() {
			quantity := cart[pid]
			id, err := strconv.ParseUint(pid, 10, 64)
			if err != nil || quantity <= 0 {
				continue
			}

			product, err := store.GetProductByID(ctx, uint(id))
			if err != nil {
				if errors.Is(err, db.ErrRecordNotFound) {
					continue
				}
				return err
			}

			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     product.Price,
			}
			if err := store.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			total = total.Add(item.Subtotal())

			product.DeductStock(quantity)
			if err := store.UpdateStock(ctx, product.ID, product.Stock); err != nil {
				return err
			}

			item.Product = product
			items = append(items, item)
		}

		if err := store.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return err
		}
		order.Total = total
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, persistenceErr(err)
	}

	cart.Clear()
	c.publishOrderPlaced(ctx, order)
	return order, nil
}

// 發送失敗只記 log, 訂單已經 commit
func (c *CheckoutService) publishOrderPlaced(ctx context.Context, order *model.Order) {
	if util.IsNil(c.publisher) {
		return
	}

	event := &model.OrderPlacedEvent{
		BaseEvent: model.BaseEvent{
			EventID:     uuid.New().String(),
			AggregateID: strconv.FormatUint(uint64(order.ID), 10),
			CreatedAt:   time.Now().UTC(),
			EventType:   model.OrderPlacedEventName,
		},
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
		Items:   make([]model.OrderPlacedItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, model.OrderPlacedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := c.publisher.PublishOrderPlaced(ctx, event); err != nil {
		c.logger.Error().
			Err(err).
			Uint("order_id", order.ID).
			Msg("failed to publish order placed event")
	}
}

var _ ICheckoutService = (*CheckoutService)(nil)
