package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder 只寫入 order 本身, 寫入後 order.ID 會被填入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("Items", "User").Create(order).Error
}

func (s *OrderRepo) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	return s.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// Update - 更新訂單金額
func (s *OrderRepo) UpdateOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("total", total)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items.Product").Preload("User").First(&order, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單, 新的在前
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單, 全表掃描, 只給匯出使用
func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("User").Order("id").Find(&orders).Error
	return orders, err
}
