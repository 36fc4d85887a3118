package memdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryDB_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()

	cat := &model.Category{Name: "Electronics"}
	require.NoError(t, m.CreateCategory(ctx, cat))

	p := &model.Product{Title: "Laptop", Price: decimal.NewFromInt(70000), Stock: 5, CategoryID: &cat.ID}
	require.NoError(t, m.CreateProduct(ctx, p))
	require.NotZero(t, p.ID)

	got, err := m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop", got.Title)
	require.NotNil(t, got.Category)
	require.Equal(t, "Electronics", got.Category.Name)

	require.NoError(t, m.UpdateStock(ctx, p.ID, 2))
	got, err = m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Stock)

	_, err = m.GetProductByID(ctx, 999)
	require.ErrorIs(t, err, db.ErrRecordNotFound)
	require.ErrorIs(t, m.UpdateStock(ctx, 999, 1), db.ErrRecordNotFound)
}

func TestMemoryDB_ListProducts(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	for _, title := range []string{"Laptop", "Headphones", "Smartphone", "Laptop Bag"} {
		require.NoError(t, m.CreateProduct(ctx, &model.Product{Title: title, Price: decimal.NewFromInt(1)}))
	}

	products, total, err := m.ListProducts(ctx, model.ProductFilter{Query: "lap", Limit: 6})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, products, 2)

	products, total, err = m.ListProducts(ctx, model.ProductFilter{Offset: 3, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Len(t, products, 1)
	require.Equal(t, "Laptop Bag", products[0].Title)

	products, _, err = m.ListProducts(ctx, model.ProductFilter{Offset: 10, Limit: 2})
	require.NoError(t, err)
	require.Empty(t, products)
}

func TestMemoryDB_ExecTxRollback(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	p := &model.Product{Title: "A", Price: decimal.NewFromInt(100), Stock: 5}
	require.NoError(t, m.CreateProduct(ctx, p))

	boom := errors.New("boom")
	err := m.ExecTx(ctx, func(s db.IStore) error {
		order := &model.Order{UserID: 1}
		if err := s.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := s.UpdateStock(ctx, p.ID, 0); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.Stock)
	orders, err := m.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestMemoryDB_OrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	u := &model.User{Email: "a@example.com"}
	require.NoError(t, m.CreateUser(ctx, u))
	p := &model.Product{Title: "A", Price: decimal.NewFromInt(100)}
	require.NoError(t, m.CreateProduct(ctx, p))

	var ids []uint
	for range 3 {
		o := &model.Order{UserID: u.ID}
		require.NoError(t, m.CreateOrder(ctx, o))
		require.NoError(t, m.CreateOrderItem(ctx, &model.OrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: p.Price}))
		ids = append(ids, o.ID)
	}
	require.NoError(t, m.CreateOrder(ctx, &model.Order{UserID: u.ID + 1}))

	orders, err := m.GetOrdersByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, ids[2], orders[0].ID)
	require.Equal(t, ids[0], orders[2].ID)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)

	all, err := m.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.NotNil(t, all[0].User)
	require.Nil(t, all[3].User)
}

func TestMemoryDB_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB()
	require.NoError(t, m.CreateUser(ctx, &model.User{Email: "a@example.com"}))
	require.ErrorIs(t, m.CreateUser(ctx, &model.User{Email: "a@example.com"}), ErrDuplicateKey)

	u, err := m.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.EqualValues(t, 1, u.ID)
	_, err = m.GetUserByEmail(ctx, "b@example.com")
	require.ErrorIs(t, err, db.ErrRecordNotFound)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrSessionNotFound)

	s := model.NewSession("sid")
	s.UserID = 3
	s.Cart.Add("1", 2)
	require.NoError(t, store.Save(ctx, s, time.Hour))

	// 存進去之後修改原物件不影響 store
	s.Cart.Add("2", 1)

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	require.EqualValues(t, 3, got.UserID)
	require.Equal(t, model.Cart{"1": 2}, got.Cart)

	now := time.Now()
	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = store.Get(ctx, "sid")
	require.ErrorIs(t, err, repository.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "sid"))
}
