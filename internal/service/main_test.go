package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func createTestProduct(t *testing.T, store db.IStore, title string, price int64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Title: title,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func newTestSessionService() ISessionService {
	return NewSessionService(memdb.NewMemorySessionStore(), time.Hour)
}

// failingStore 交易內的 UpdateOrderTotal 固定失敗, 用來驗證 rollback
type failingStore struct {
	*memdb.MemoryDB
}

func (f *failingStore) ExecTx(ctx context.Context, fn func(db.IStore) error) error {
	return f.MemoryDB.ExecTx(ctx, func(s db.IStore) error {
		return fn(&failingTx{IStore: s})
	})
}

type failingTx struct {
	db.IStore
}

func (f *failingTx) UpdateOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return errBoom
}

// brokenStore 所有讀取都失敗
type brokenStore struct {
	*memdb.MemoryDB
}

func (b *brokenStore) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	return nil, errBoom
}

func (b *brokenStore) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	return nil, errBoom
}
