package model

import (
	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null;type:varchar(100)" json:"name"`
	BaseModel
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null;type:varchar(200)" json:"title"`
	Description string          `gorm:"not null;type:text;default:''" json:"description"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       *string         `gorm:"type:varchar(255)" json:"image,omitempty"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	BaseModel
}

// DeductStock 扣庫存，最低到 0，不檢查是否足夠
func (p *Product) DeductStock(quantity int) {
	p.Stock = max(0, p.Stock-quantity)
}

// ProductFilter 首頁查詢條件
type ProductFilter struct {
	Query  string // title 子字串, 不分大小寫
	Offset int
	Limit  int
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Query      string     `json:"q"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int64      `json:"total"`
}

func (p *ProductPage) Pages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}
