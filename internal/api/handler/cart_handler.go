package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CartHandler struct {
	baseHandler
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService, sessionService service.ISessionService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{
		baseHandler: newBaseHandler(sessionService),
		cartService: cartService,
	}
}

// ViewCart GET /cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.View(r.Context(), h.session(r).Cart)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, view)
}

// AddToCart POST /cart/add/{id}, quantity 預設 1
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Bad Request", nil)
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		quantity = 1
	}

	if err := h.cartService.Add(r.Context(), h.session(r), id, quantity); err != nil {
		h.internalError(w, r, err)
		return
	}

	location := r.Referer()
	if location == "" {
		location = "/"
	}
	h.flashRedirect(w, r, model.FlashSuccess, "Added to cart", location)
}

// UpdateCart POST /cart/update, 欄位 qty_<productID>
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Bad Request", nil)
		return
	}
	if err := h.cartService.UpdateQuantities(r.Context(), h.session(r), r.PostForm); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.flashRedirect(w, r, model.FlashInfo, "Cart updated", "/cart")
}
