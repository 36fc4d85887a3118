package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

type OrderHandler struct {
	baseHandler
	checkoutService service.ICheckoutService
	orderService    service.IOrderService
}

func NewOrderHandler(checkoutService service.ICheckoutService, orderService service.IOrderService, sessionService service.ISessionService) *OrderHandler {
	if checkoutService == nil {
		panic("checkoutService cannot be nil")
	}
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		baseHandler:     newBaseHandler(sessionService),
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Checkout POST /checkout, 需登入
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := util.GetCurrentUser(r.Context())
	if user == nil {
		api.Redirect(w, r, "/login")
		return
	}
	session := h.session(r)

	order, err := h.checkoutService.Checkout(r.Context(), user.ID, session.Cart)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			h.flashRedirect(w, r, model.FlashWarning, "Cart is empty", "/")
			return
		}
		// 購物車保留, 讓使用者重試
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("checkout failed")
		h.flashRedirect(w, r, model.FlashDanger, "Could not place order, please try again", "/cart")
		return
	}

	logger := zerolog.Ctx(r.Context())
	logger.Info().
		Uint("order_id", order.ID).
		Str("total", order.Total.String()).
		Msg("order placed")

	// 購物車已清空, 連同 flash 寫回 session
	// 寫回失敗時不能回報成功, 否則舊購物車重送會重複下單
	if err := h.sessions.Flash(r.Context(), session, model.FlashSuccess, "Order placed successfully"); err != nil {
		logger.Error().Err(err).Uint("order_id", order.ID).Msg("order placed but cart not cleared")
		api.ErrorJSON(w, http.StatusInternalServerError, "Order placed but cart could not be cleared", map[string]string{
			"order_id": strconv.FormatUint(uint64(order.ID), 10),
		})
		return
	}
	api.Redirect(w, r, "/orders")
}

// Orders GET /orders, 新的在前
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	user := util.GetCurrentUser(r.Context())
	if user == nil {
		api.Redirect(w, r, "/login")
		return
	}
	orders, err := h.orderService.ListUserOrders(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, dto.OrdersDTO{Orders: orders})
}

// OrderDetail GET /orders/{id}, 別人的訂單回 404
func (h *OrderHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	user := util.GetCurrentUser(r.Context())
	if user == nil {
		api.Redirect(w, r, "/login")
		return
	}
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	order, err := h.orderService.GetUserOrder(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			notFound(w)
			return
		}
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, order)
}
