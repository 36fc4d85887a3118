package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	mock_service "github.com/RoyceAzure/lab/storefront/internal/service/mock"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCheckoutRequest(session *model.Session, user *model.User) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	ctx := util.WithSession(req.Context(), session)
	if user != nil {
		ctx = util.WithCurrentUser(ctx, user)
	}
	return req.WithContext(ctx)
}

func TestOrderHandler_Checkout(t *testing.T) {
	user := &model.User{ID: 3}

	testCases := []struct {
		name         string
		setup        func(m *mock_service.MockICheckoutService)
		wantLocation string
		wantFlash    model.Flash
		wantCart     model.Cart
	}{
		{
			name: "success",
			setup: func(m *mock_service.MockICheckoutService) {
				m.EXPECT().Checkout(gomock.Any(), uint(3), gomock.Any()).
					DoAndReturn(func(ctx context.Context, userID uint, cart model.Cart) (*model.Order, error) {
						cart.Clear()
						return &model.Order{ID: 1, UserID: userID, Total: decimal.NewFromInt(100)}, nil
					})
			},
			wantLocation: "/orders",
			wantFlash:    model.Flash{Category: model.FlashSuccess, Message: "Order placed successfully"},
			wantCart:     model.Cart{},
		},
		{
			name: "empty cart",
			setup: func(m *mock_service.MockICheckoutService) {
				m.EXPECT().Checkout(gomock.Any(), uint(3), gomock.Any()).Return(nil, service.ErrEmptyCart)
			},
			wantLocation: "/",
			wantFlash:    model.Flash{Category: model.FlashWarning, Message: "Cart is empty"},
			wantCart:     model.Cart{"1": 2},
		},
		{
			name: "persistence failure keeps cart",
			setup: func(m *mock_service.MockICheckoutService) {
				m.EXPECT().Checkout(gomock.Any(), uint(3), gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", service.ErrPersistence, context.DeadlineExceeded))
			},
			wantLocation: "/cart",
			wantFlash:    model.Flash{Category: model.FlashDanger, Message: "Could not place order, please try again"},
			wantCart:     model.Cart{"1": 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			checkout := mock_service.NewMockICheckoutService(ctrl)
			tc.setup(checkout)

			store := memdb.NewMemorySessionStore()
			sessions := service.NewSessionService(store, time.Hour)
			h := NewOrderHandler(checkout, service.NewOrderService(memdb.NewMemoryDB()), sessions)

			session := model.NewSession("sid")
			session.UserID = user.ID
			session.Cart.Add("1", 2)

			rec := httptest.NewRecorder()
			h.Checkout(rec, newCheckoutRequest(session, user))
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, tc.wantLocation, rec.Header().Get("Location"))

			saved, err := store.Get(context.Background(), "sid")
			require.NoError(t, err)
			require.Equal(t, []model.Flash{tc.wantFlash}, saved.Flashes)
			require.Equal(t, tc.wantCart, saved.Cart)
		})
	}
}

// failingSessionStore 開啟 failSave 後 Save 一律失敗
type failingSessionStore struct {
	*memdb.MemorySessionStore
	failSave bool
}

func (f *failingSessionStore) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	if f.failSave {
		return errors.New("session store unavailable")
	}
	return f.MemorySessionStore.Save(ctx, session, ttl)
}

func TestOrderHandler_CheckoutSessionSaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checkout := mock_service.NewMockICheckoutService(ctrl)
	checkout.EXPECT().Checkout(gomock.Any(), uint(3), gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID uint, cart model.Cart) (*model.Order, error) {
			cart.Clear()
			return &model.Order{ID: 9, UserID: userID, Total: decimal.NewFromInt(200)}, nil
		})

	store := &failingSessionStore{MemorySessionStore: memdb.NewMemorySessionStore()}
	sessions := service.NewSessionService(store, time.Hour)
	h := NewOrderHandler(checkout, service.NewOrderService(memdb.NewMemoryDB()), sessions)

	session := model.NewSession("sid")
	session.UserID = 3
	session.Cart.Add("1", 2)
	require.NoError(t, sessions.Save(context.Background(), session))
	store.failSave = true

	rec := httptest.NewRecorder()
	h.Checkout(rec, newCheckoutRequest(session, &model.User{ID: 3}))

	// 不可回報成功或導向訂單頁
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
	var body struct {
		Error string            `json:"error"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "9", body.Data["order_id"])
}

func TestOrderHandler_CheckoutWithoutUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checkout := mock_service.NewMockICheckoutService(ctrl)
	sessions := service.NewSessionService(memdb.NewMemorySessionStore(), time.Hour)
	h := NewOrderHandler(checkout, service.NewOrderService(memdb.NewMemoryDB()), sessions)

	rec := httptest.NewRecorder()
	h.Checkout(rec, newCheckoutRequest(model.NewSession("sid"), nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestIdParam(t *testing.T) {
	testCases := map[string]bool{
		"1":   true,
		"0":   false,
		"-1":  false,
		"abc": false,
		"":    false,
	}
	for raw, ok := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		_, got := idParam(req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx)))
		require.Equal(t, ok, got, raw)
	}
}
