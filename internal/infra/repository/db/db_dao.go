package db

import (
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound 查無資料
	ErrRecordNotFound = errors.New("record not found")
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性, 正式環境用 migrations 目錄, 這裡給測試跟 seed 使用
// 訂單不對 users/products 建外鍵, 刪除使用者或商品後歷史訂單仍保留
func (d *DbDao) InitMigrate() error {
	if err := d.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return err
	}

	// 舊版 AutoMigrate 建過的外鍵
	m := d.Migrator()
	for _, fk := range orderHistoryForeignKeys {
		if m.HasConstraint(fk.model, fk.name) {
			if err := m.DropConstraint(fk.model, fk.name); err != nil {
				return err
			}
		}
	}
	return nil
}

var orderHistoryForeignKeys = []struct {
	model any
	name  string
}{
	{&model.Order{}, "fk_orders_user"},
	{&model.OrderItem{}, "fk_order_items_product"},
}

// ResetTables 清空所有資料表並重置序號
func (d *DbDao) ResetTables() error {
	return d.Exec("TRUNCATE TABLE order_items, orders, products, categories, users RESTART IDENTITY CASCADE").Error
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
