package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CatalogHandler struct {
	baseHandler
	productService service.IProductService
}

func NewCatalogHandler(productService service.IProductService, sessionService service.ISessionService) *CatalogHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &CatalogHandler{
		baseHandler:    newBaseHandler(sessionService),
		productService: productService,
	}
}

// Home GET /?q=&page=
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.productService.ListProducts(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, dto.NewProductPageDTO(result))
}

// ProductDetail GET /products/{id}
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			notFound(w)
			return
		}
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, product)
}
