package model

import (
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cart productID(字串) -> 數量
// 只存在 session 裡，結帳前不會寫入 db
// 數量 <= 0 的項目一律移除，不會存 0
type Cart map[string]int

// MaxQuantity 單項上限, 對齊 order_items.quantity (INTEGER)
const MaxQuantity = math.MaxInt32

// Add 累加後超過 MaxQuantity 以上限計
func (c Cart) Add(productID string, quantity int) {
	cur := c[productID]
	if quantity > MaxQuantity-cur {
		c[productID] = MaxQuantity
		return
	}
	c.SetQuantity(productID, cur+quantity)
}

func (c Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = min(quantity, MaxQuantity)
}

// SetQuantityString 無法解析的數量視為 0
func (c Cart) SetQuantityString(productID string, raw string) {
	q, err := strconv.Atoi(raw)
	if err != nil {
		q = 0
	}
	c.SetQuantity(productID, q)
}

func (c Cart) Remove(productID string) {
	delete(c, productID)
}

func (c Cart) Clear() {
	clear(c)
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// ProductIDs 排序後的 productID，讓結帳順序固定
func (c Cart) ProductIDs() []string {
	return slices.Sorted(maps.Keys(c))
}

func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	return maps.Clone(c)
}

type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}
