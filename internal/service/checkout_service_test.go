package service

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	mock_service "github.com/RoyceAzure/lab/storefront/internal/service/mock"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *memdb.MemoryDB
	publisher *mock_service.MockIOrderEventPublisher
	service   ICheckoutService
}

func (s *CheckoutServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = memdb.NewMemoryDB()
	s.publisher = mock_service.NewMockIOrderEventPublisher(s.ctrl)
	s.service = NewCheckoutService(s.store, s.publisher, nil)
}

func (s *CheckoutServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *CheckoutServiceTestSuite) TestCheckout_TwoLines() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	b := createTestProduct(s.T(), s.store, "B", 50, 1)
	cart := model.Cart{key(a.ID): 2, key(b.ID): 1}

	s.publisher.EXPECT().
		PublishOrderPlaced(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *model.OrderPlacedEvent) error {
			require.Equal(s.T(), model.OrderPlacedEventName, event.Type())
			require.Len(s.T(), event.Items, 2)
			require.True(s.T(), event.Total.Equal(decimal.NewFromInt(250)))
			return nil
		}).
		Times(1)

	order, err := s.service.Checkout(ctx, 7, cart)
	require.NoError(s.T(), err)
	require.EqualValues(s.T(), 7, order.UserID)
	require.True(s.T(), order.Total.Equal(decimal.NewFromInt(250)))
	require.Len(s.T(), order.Items, 2)
	require.True(s.T(), cart.IsEmpty())

	gotA, err := s.store.GetProductByID(ctx, a.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, gotA.Stock)
	gotB, err := s.store.GetProductByID(ctx, b.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, gotB.Stock)

	stored, err := s.store.GetOrderByID(ctx, order.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), stored.Total.Equal(decimal.NewFromInt(250)))
	require.Len(s.T(), stored.Items, 2)
}

// 庫存不足時扣到 0, 金額仍以購物車數量計算
func (s *CheckoutServiceTestSuite) TestCheckout_OversellClampsStock() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Return(nil)

	order, err := s.service.Checkout(ctx, 1, model.Cart{key(a.ID): 10})
	require.NoError(s.T(), err)
	require.True(s.T(), order.Total.Equal(decimal.NewFromInt(1000)))
	require.Equal(s.T(), 10, order.Items[0].Quantity)

	got, err := s.store.GetProductByID(ctx, a.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, got.Stock)
}

func (s *CheckoutServiceTestSuite) TestCheckout_EmptyCart() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)

	for _, cart := range []model.Cart{nil, {}} {
		order, err := s.service.Checkout(ctx, 1, cart)
		require.ErrorIs(s.T(), err, ErrEmptyCart)
		require.Nil(s.T(), order)
	}

	orders, err := s.store.GetAllOrders(ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), orders)
	got, err := s.store.GetProductByID(ctx, a.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, got.Stock)
}

// 已刪除或無法解析的商品整行略過, 不回錯誤
func (s *CheckoutServiceTestSuite) TestCheckout_SkipsMissingProducts() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	gone := createTestProduct(s.T(), s.store, "Gone", 999, 5)
	b := createTestProduct(s.T(), s.store, "B", 30, 5)
	s.store.DeleteProduct(gone.ID)
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Return(nil)

	cart := model.Cart{key(a.ID): 1, key(gone.ID): 3, key(b.ID): 2, "not-a-number": 4}
	order, err := s.service.Checkout(ctx, 1, cart)
	require.NoError(s.T(), err)
	require.Len(s.T(), order.Items, 2)
	require.True(s.T(), order.Total.Equal(decimal.NewFromInt(160)))
}

func (s *CheckoutServiceTestSuite) TestCheckout_AllProductsMissing() {
	ctx := context.Background()
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Return(nil)

	order, err := s.service.Checkout(ctx, 1, model.Cart{"404": 1})
	require.NoError(s.T(), err)
	require.Empty(s.T(), order.Items)
	require.True(s.T(), order.Total.IsZero())
}

func (s *CheckoutServiceTestSuite) TestCheckout_PersistenceFailureRollsBack() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	svc := NewCheckoutService(&failingStore{MemoryDB: s.store}, s.publisher, nil)
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Times(0)

	cart := model.Cart{key(a.ID): 2}
	order, err := svc.Checkout(ctx, 1, cart)
	require.ErrorIs(s.T(), err, ErrPersistence)
	require.ErrorIs(s.T(), err, errBoom)
	require.Nil(s.T(), order)

	require.Equal(s.T(), model.Cart{key(a.ID): 2}, cart)
	got, err := s.store.GetProductByID(ctx, a.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, got.Stock)
	orders, err := s.store.GetAllOrders(ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), orders)
}

func (s *CheckoutServiceTestSuite) TestCheckout_PublishFailureDoesNotFail() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Return(errBoom)

	order, err := s.service.Checkout(ctx, 1, model.Cart{key(a.ID): 1})
	require.NoError(s.T(), err)
	require.NotZero(s.T(), order.ID)
}

func (s *CheckoutServiceTestSuite) TestCheckout_NilPublisher() {
	ctx := context.Background()
	a := createTestProduct(s.T(), s.store, "A", 100, 5)
	svc := NewCheckoutService(s.store, nil, nil)

	order, err := svc.Checkout(ctx, 1, model.Cart{key(a.ID): 1})
	require.NoError(s.T(), err)
	require.True(s.T(), order.Total.Equal(decimal.NewFromInt(100)))
}

// N 行中有 M 行商品存在: 建立 M 筆明細, 金額為 M 行的 price * quantity 總和, 庫存不為負
func (s *CheckoutServiceTestSuite) TestCheckout_RandomCarts() {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	s.publisher.EXPECT().PublishOrderPlaced(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	for round := 0; round < 20; round++ {
		s.store.Reset()
		n := rng.Intn(8) + 1
		cart := model.Cart{}
		expectedItems := 0
		expectedTotal := decimal.Zero
		for i := 0; i < n; i++ {
			price := int64(rng.Intn(500) + 1)
			quantity := rng.Intn(10) + 1
			p := createTestProduct(s.T(), s.store, "P"+strconv.Itoa(i), price, rng.Intn(10))
			cart[key(p.ID)] = quantity
			if rng.Intn(3) == 0 {
				s.store.DeleteProduct(p.ID)
				continue
			}
			expectedItems++
			expectedTotal = expectedTotal.Add(decimal.NewFromInt(price * int64(quantity)))
		}

		order, err := s.service.Checkout(ctx, 1, cart)
		require.NoError(s.T(), err)
		require.Len(s.T(), order.Items, expectedItems)
		require.True(s.T(), order.Total.Equal(expectedTotal), "round %d: %s != %s", round, order.Total, expectedTotal)

		products, err := s.store.GetAllProducts(ctx)
		require.NoError(s.T(), err)
		for _, p := range products {
			require.GreaterOrEqual(s.T(), p.Stock, 0)
		}
	}
}
