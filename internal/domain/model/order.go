package model

import (
	"github.com/shopspring/decimal"
)

// Order 建立後不再變動
type Order struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	UserID uint            `gorm:"not null;index" json:"user_id"`
	User   *User           `gorm:"foreignKey:UserID;constraint:-" json:"-"` // 不建外鍵, 刪除使用者後保留訂單
	Items  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"` // 一對多，級聯刪除
	Total  decimal.Decimal `gorm:"not null;type:decimal(12,2);default:0" json:"total"`
	BaseModel
}

// OrderItem.Price 為結帳當下的商品價格，之後商品調價不影響
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:-" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price"`
	BaseModel
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
