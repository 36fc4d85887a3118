package memdb

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

/*
開發模式用的記憶體資料庫
行為跟 gorm 版本一致: 查無資料回傳 db.ErrRecordNotFound, ExecTx 失敗整筆還原
*/
type MemoryDB struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	products   map[uint]model.Product
	categories map[uint]model.Category
	users      map[uint]model.User
	orders     map[uint]model.Order
	items      []model.OrderItem
	nextID     map[string]uint
}

func newMemState() *memState {
	return &memState{
		products:   map[uint]model.Product{},
		categories: map[uint]model.Category{},
		users:      map[uint]model.User{},
		orders:     map[uint]model.Order{},
		nextID:     map[string]uint{},
	}
}

func (s *memState) clone() *memState {
	n := newMemState()
	for k, v := range s.products {
		n.products[k] = v
	}
	for k, v := range s.categories {
		n.categories[k] = v
	}
	for k, v := range s.users {
		n.users[k] = v
	}
	for k, v := range s.orders {
		n.orders[k] = v
	}
	n.items = slices.Clone(s.items)
	for k, v := range s.nextID {
		n.nextID[k] = v
	}
	return n
}

func (s *memState) id(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{state: newMemState()}
}

// ExecTx 交易期間持有鎖, fn 內的操作直接作用在 state 上, 失敗時還原快照
func (m *MemoryDB) ExecTx(ctx context.Context, fn func(db.IStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(&txView{s: m.state}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// Reset 清空所有資料
func (m *MemoryDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = newMemState()
}

func (m *MemoryDB) view() *txView {
	return &txView{s: m.state}
}

func (m *MemoryDB) CreateProduct(ctx context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateProduct(ctx, product)
}

func (m *MemoryDB) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetProductByID(ctx, productID)
}

func (m *MemoryDB) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListProducts(ctx, filter)
}

func (m *MemoryDB) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetAllProducts(ctx)
}

func (m *MemoryDB) UpdateProduct(ctx context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateProduct(ctx, product)
}

func (m *MemoryDB) UpdateStock(ctx context.Context, id uint, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateStock(ctx, id, stock)
}

func (m *MemoryDB) CreateCategory(ctx context.Context, category *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateCategory(ctx, category)
}

func (m *MemoryDB) GetCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetCategoryByID(ctx, id)
}

func (m *MemoryDB) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetAllCategories(ctx)
}

func (m *MemoryDB) CreateOrder(ctx context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateOrder(ctx, order)
}

func (m *MemoryDB) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateOrderItem(ctx, item)
}

func (m *MemoryDB) UpdateOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateOrderTotal(ctx, id, total)
}

func (m *MemoryDB) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetOrderByID(ctx, id)
}

func (m *MemoryDB) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetOrdersByUserID(ctx, userID)
}

func (m *MemoryDB) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetAllOrders(ctx)
}

func (m *MemoryDB) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateUser(ctx, user)
}

func (m *MemoryDB) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetUserByID(ctx, id)
}

func (m *MemoryDB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetUserByEmail(ctx, email)
}

// DeleteProduct 給測試模擬商品消失, 正式流程沒有刪除商品
func (m *MemoryDB) DeleteProduct(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.products, id)
}

// DeleteUser 給測試模擬使用者消失
func (m *MemoryDB) DeleteUser(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.users, id)
}

// txView 不上鎖, 由呼叫端負責
type txView struct {
	s *memState
}

func (v *txView) CreateProduct(ctx context.Context, product *model.Product) error {
	product.ID = v.s.id("products")
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	stored := *product
	stored.Category = nil
	v.s.products[product.ID] = stored
	return nil
}

func (v *txView) withCategory(p model.Product) model.Product {
	p.Category = nil
	if p.CategoryID != nil {
		if c, ok := v.s.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func (v *txView) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	p, ok := v.s.products[productID]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	p = v.withCategory(p)
	return &p, nil
}

func (v *txView) sortedProducts() []model.Product {
	products := make([]model.Product, 0, len(v.s.products))
	for _, p := range v.s.products {
		products = append(products, v.withCategory(p))
	}
	slices.SortFunc(products, func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) })
	return products
}

func (v *txView) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	q := strings.ToLower(filter.Query)
	matched := make([]model.Product, 0)
	for _, p := range v.sortedProducts() {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			matched = append(matched, p)
		}
	}

	total := int64(len(matched))
	if filter.Limit > 0 {
		start := min(max(filter.Offset, 0), len(matched))
		end := min(start+filter.Limit, len(matched))
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (v *txView) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return v.sortedProducts(), nil
}

func (v *txView) UpdateProduct(ctx context.Context, product *model.Product) error {
	old, ok := v.s.products[product.ID]
	if !ok {
		return db.ErrRecordNotFound
	}
	product.CreatedAt = old.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	stored := *product
	stored.Category = nil
	v.s.products[product.ID] = stored
	return nil
}

func (v *txView) UpdateStock(ctx context.Context, id uint, stock int) error {
	p, ok := v.s.products[id]
	if !ok {
		return db.ErrRecordNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	v.s.products[id] = p
	return nil
}

func (v *txView) CreateCategory(ctx context.Context, category *model.Category) error {
	category.ID = v.s.id("categories")
	category.CreatedAt = time.Now().UTC()
	v.s.categories[category.ID] = *category
	return nil
}

func (v *txView) GetCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	c, ok := v.s.categories[id]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	return &c, nil
}

func (v *txView) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(v.s.categories))
	for _, c := range v.s.categories {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b model.Category) int { return cmp.Compare(a.ID, b.ID) })
	return categories, nil
}

func (v *txView) CreateOrder(ctx context.Context, order *model.Order) error {
	order.ID = v.s.id("orders")
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items = nil
	stored.User = nil
	v.s.orders[order.ID] = stored
	return nil
}

func (v *txView) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	if _, ok := v.s.orders[item.OrderID]; !ok {
		return db.ErrRecordNotFound
	}
	item.ID = v.s.id("order_items")
	item.CreatedAt = time.Now().UTC()
	stored := *item
	stored.Product = nil
	v.s.items = append(v.s.items, stored)
	return nil
}

func (v *txView) UpdateOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	o, ok := v.s.orders[id]
	if !ok {
		return db.ErrRecordNotFound
	}
	o.Total = total
	o.UpdatedAt = time.Now().UTC()
	v.s.orders[id] = o
	return nil
}

func (v *txView) loadOrder(o model.Order) model.Order {
	o.Items = nil
	for _, item := range v.s.items {
		if item.OrderID != o.ID {
			continue
		}
		if p, ok := v.s.products[item.ProductID]; ok {
			item.Product = &p
		}
		o.Items = append(o.Items, item)
	}
	o.User = nil
	if u, ok := v.s.users[o.UserID]; ok {
		o.User = &u
	}
	return o
}

func (v *txView) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	o, ok := v.s.orders[id]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	o = v.loadOrder(o)
	return &o, nil
}

func (v *txView) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	for _, o := range v.s.orders {
		if o.UserID == userID {
			orders = append(orders, v.loadOrder(o))
		}
	}
	// 新的在前
	slices.SortFunc(orders, func(a, b model.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return orders, nil
}

func (v *txView) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(v.s.orders))
	for _, o := range v.s.orders {
		orders = append(orders, v.loadOrder(o))
	}
	slices.SortFunc(orders, func(a, b model.Order) int { return cmp.Compare(a.ID, b.ID) })
	return orders, nil
}

func (v *txView) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range v.s.users {
		if u.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	user.ID = v.s.id("users")
	user.CreatedAt = time.Now().UTC()
	v.s.users[user.ID] = *user
	return nil
}

func (v *txView) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	u, ok := v.s.users[id]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	return &u, nil
}

func (v *txView) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range v.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrRecordNotFound
}

var (
	_ db.ITxStore = (*MemoryDB)(nil)
	_ db.IStore   = (*txView)(nil)
)
