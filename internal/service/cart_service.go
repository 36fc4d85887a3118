package service

import (
	"context"
	"errors"
	"iter"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

// 表單欄位 qty_<productID>
const QuantityFieldPrefix = "qty_"

type ICartService interface {
	Add(ctx context.Context, session *model.Session, productID uint, quantity int) error
	SetQuantity(ctx context.Context, session *model.Session, productID string, quantity int) error
	UpdateQuantities(ctx context.Context, session *model.Session, form map[string][]string) error
	Clear(ctx context.Context, session *model.Session) error
	Lines(ctx context.Context, cart model.Cart) iter.Seq2[model.CartLine, error]
	View(ctx context.Context, cart model.Cart) (*model.CartView, error)
}

// CartService 購物車只存在 session, 每次異動立即寫回 session store
type CartService struct {
	store    db.IStore
	sessions ISessionService
}

func NewCartService(store db.IStore, sessions ISessionService) ICartService {
	if store == nil {
		panic("store is nil")
	}
	if sessions == nil {
		panic("session service is nil")
	}
	return &CartService{
		store:    store,
		sessions: sessions,
	}
}

// Add 不檢查商品是否存在與庫存, 已下架的商品在 view/結帳時略過
// 數量 <= 0 直接忽略
func (c *CartService) Add(ctx context.Context, session *model.Session, productID uint, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	session.Cart.Add(strconv.FormatUint(uint64(productID), 10), quantity)
	return c.sessions.Save(ctx, session)
}

func (c *CartService) SetQuantity(ctx context.Context, session *model.Session, productID string, quantity int) error {
	session.Cart.SetQuantity(productID, quantity)
	return c.sessions.Save(ctx, session)
}

// UpdateQuantities 只處理 qty_ 開頭的欄位, 無法解析的數量視為 0 並移除
func (c *CartService) UpdateQuantities(ctx context.Context, session *model.Session, form map[string][]string) error {
	for key, values := range form {
		productID, ok := strings.CutPrefix(key, QuantityFieldPrefix)
		if !ok || productID == "" || len(values) == 0 {
			continue
		}
		session.Cart.SetQuantityString(productID, strings.TrimSpace(values[0]))
	}
	return c.sessions.Save(ctx, session)
}

func (c *CartService) Clear(ctx context.Context, session *model.Session) error {
	session.Cart.Clear()
	return c.sessions.Save(ctx, session)
}

// Lines 依 productID 排序逐筆查詢, 已不存在的商品直接略過
func (c *CartService) Lines(ctx context.Context, cart model.Cart) iter.Seq2[model.CartLine, error] {
	return func(yield func(model.CartLine, error) bool) {
		for _, pid := range cart.ProductIDs() {
			quantity := cart[pid]
			id, err := strconv.ParseUint(pid, 10, 64)
			if err != nil || quantity <= 0 {
				continue
			}

			product, err := c.store.GetProductByID(ctx, uint(id))
			if err != nil {
				if errors.Is(err, db.ErrRecordNotFound) {
					continue
				}
				yield(model.CartLine{}, persistenceErr(err))
				return
			}

			line := model.CartLine{
				Product:  *product,
				Quantity: quantity,
				Subtotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

func (c *CartService) View(ctx context.Context, cart model.Cart) (*model.CartView, error) {
	view := &model.CartView{
		Lines: make([]model.CartLine, 0, len(cart)),
		Total: decimal.Zero,
	}
	for line, err := range c.Lines(ctx, cart) {
		if err != nil {
			return nil, err
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.Subtotal)
	}
	return view, nil
}

var _ ICartService = (*CartService)(nil)
