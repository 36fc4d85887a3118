package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

const maxUploadMemory = 16 << 20

type AdminHandler struct {
	baseHandler
	productService service.IProductService
	exportService  service.IExportService
	exportDir      string
}

func NewAdminHandler(productService service.IProductService, exportService service.IExportService, sessionService service.ISessionService, exportDir string) *AdminHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	if exportService == nil {
		panic("exportService cannot be nil")
	}
	return &AdminHandler{
		baseHandler:    newBaseHandler(sessionService),
		productService: productService,
		exportService:  exportService,
		exportDir:      exportDir,
	}
}

// Products GET /admin/products
func (h *AdminHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.AllProducts(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, dto.AdminProductsDTO{Products: products})
}

// EditProduct GET /admin/products/{id}
func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
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
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, dto.ProductFormDTO{Product: product, Categories: categories})
}

// CreateProduct POST /admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, image, cleanup, err := parseProductForm(r)
	if err != nil {
		h.badForm(w, r, err)
		return
	}
	defer cleanup()

	product, err := h.productService.CreateProduct(r.Context(), input, image)
	if err != nil {
		h.productError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("product_id", product.ID).Msg("product created")
	h.flashRedirect(w, r, model.FlashSuccess, "Product created", "/admin/products")
}

// UpdateProduct POST /admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w)
		return
	}
	input, image, cleanup, err := parseProductForm(r)
	if err != nil {
		h.badForm(w, r, err)
		return
	}
	defer cleanup()

	product, err := h.productService.UpdateProduct(r.Context(), id, input, image)
	if err != nil {
		h.productError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Uint("product_id", product.ID).Msg("product updated")
	h.flashRedirect(w, r, model.FlashSuccess, "Product updated", "/admin/products")
}

// ExportOrders GET /admin/orders/export, 每次重新產生 CSV 檔後下載
func (h *AdminHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	path, err := h.exportService.ExportOrdersToFile(r.Context(), h.exportDir)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExportFileName))
	http.ServeFile(w, r, path)
}

func (h *AdminHandler) productError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		validationFailed(w, ve)
	case errors.Is(err, service.ErrProductNotFound):
		notFound(w)
	default:
		h.internalError(w, r, err)
	}
}

func (h *AdminHandler) badForm(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Msg("invalid product form")
	validationFailed(w, &service.ValidationError{Fields: map[string]string{"form": "Invalid form data."}})
}

// parseProductForm 接受 multipart 或一般表單, 沒有上傳圖片時 image 為 nil
func parseProductForm(r *http.Request) (service.ProductInput, *service.ImageUpload, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.ProductInput{}, nil, noop, err
	}

	input := service.ProductInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stock"),
		CategoryID:  r.PostFormValue("category_id"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil, noop, nil
		}
		return input, nil, noop, err
	}
	cleanup := func() { closeFile(file) }
	if header.Filename == "" {
		return input, nil, cleanup, nil
	}
	return input, &service.ImageUpload{Filename: header.Filename, Reader: file}, cleanup, nil
}

func closeFile(f multipart.File) {
	_ = f.Close()
}
