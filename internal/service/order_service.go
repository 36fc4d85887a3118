package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

type IOrderService interface {
	ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetUserOrder(ctx context.Context, userID uint, orderID uint) (*model.Order, error)
}

type OrderService struct {
	store db.IStore
}

func NewOrderService(store db.IStore) IOrderService {
	if store == nil {
		panic("store is nil")
	}
	return &OrderService{store: store}
}

// ListUserOrders 新的在前
func (o *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := o.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceErr(err)
	}
	return orders, nil
}

// GetUserOrder 只能看自己的訂單, 別人的一律當作不存在
func (o *OrderService) GetUserOrder(ctx context.Context, userID uint, orderID uint) (*model.Order, error) {
	order, err := o.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceErr(err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

var _ IOrderService = (*OrderService)(nil)
