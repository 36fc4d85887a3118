package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/shopspring/decimal"
)

const maxTitleLength = 200

// ProductInput 後台表單的原始字串
type ProductInput struct {
	Title       string
	Description string
	Price       string
	Stock       string
	CategoryID  string
}

// ImageUpload 可選的圖片
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

type IProductService interface {
	ListProducts(ctx context.Context, query string, page int) (*model.ProductPage, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	AllProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput, image *ImageUpload) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput, image *ImageUpload) (*model.Product, error)
}

type ProductService struct {
	store  db.IStore
	images storage.ImageStorage
}

func NewProductService(store db.IStore, images storage.ImageStorage) IProductService {
	if store == nil {
		panic("store is nil")
	}
	if images == nil {
		panic("image storage is nil")
	}
	return &ProductService{
		store:  store,
		images: images,
	}
}

// ListProducts title 子字串查詢, 每頁固定 DefaultPageSize 筆
func (p *ProductService) ListProducts(ctx context.Context, query string, page int) (*model.ProductPage, error) {
	if page < 1 {
		page = constants.DefaultPage
	}
	query = strings.TrimSpace(query)

	products, total, err := p.store.ListProducts(ctx, model.ProductFilter{
		Query:  query,
		Offset: (page - 1) * constants.DefaultPageSize,
		Limit:  constants.DefaultPageSize,
	})
	if err != nil {
		return nil, persistenceErr(err)
	}
	categories, err := p.store.GetAllCategories(ctx)
	if err != nil {
		return nil, persistenceErr(err)
	}

	return &model.ProductPage{
		Products:   products,
		Categories: categories,
		Query:      query,
		Page:       page,
		PerPage:    constants.DefaultPageSize,
		Total:      total,
	}, nil
}

func (p *ProductService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := p.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, persistenceErr(err)
	}
	return product, nil
}

func (p *ProductService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := p.store.GetAllCategories(ctx)
	if err != nil {
		return nil, persistenceErr(err)
	}
	return categories, nil
}

func (p *ProductService) AllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := p.store.GetAllProducts(ctx)
	if err != nil {
		return nil, persistenceErr(err)
	}
	return products, nil
}

// CreateProduct 先驗證欄位, 通過後才存圖片, 最後寫入商品
func (p *ProductService) CreateProduct(ctx context.Context, input ProductInput, image *ImageUpload) (*model.Product, error) {
	product := &model.Product{}
	if err := p.applyInput(ctx, product, input); err != nil {
		return nil, err
	}
	if err := p.attachImage(ctx, product, image); err != nil {
		return nil, err
	}

	if err := p.store.CreateProduct(ctx, product); err != nil {
		return nil, persistenceErr(err)
	}
	return product, nil
}

// UpdateProduct 沒有上傳新圖片時保留原本的圖片
func (p *ProductService) UpdateProduct(ctx context.Context, id uint, input ProductInput, image *ImageUpload) (*model.Product, error) {
	product, err := p.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.applyInput(ctx, product, input); err != nil {
		return nil, err
	}
	if err := p.attachImage(ctx, product, image); err != nil {
		return nil, err
	}

	if err := p.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, persistenceErr(err)
	}
	return product, nil
}

func (p *ProductService) attachImage(ctx context.Context, product *model.Product, image *ImageUpload) error {
	if image == nil || image.Filename == "" || image.Reader == nil {
		return nil
	}
	ref, err := p.images.Save(ctx, image.Filename, image.Reader)
	if err != nil {
		return persistenceErr(err)
	}
	// 不允許的副檔名不更動原本的圖片
	if ref != "" {
		product.Image = &ref
	}
	return nil
}

// applyInput 驗證並寫入 product, 任何欄位錯誤都不會修改 product
func (p *ProductService) applyInput(ctx context.Context, product *model.Product, input ProductInput) error {
	ve := NewValidationError()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		ve.Add("title", "This field is required.")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		ve.Add("title", "Field cannot be longer than 200 characters.")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil {
		ve.Add("price", "Not a valid decimal value.")
	} else if price.IsNegative() {
		ve.Add("price", "Number must be at least 0.")
	}

	stock, err := strconv.Atoi(strings.TrimSpace(input.Stock))
	if err != nil {
		ve.Add("stock", "Not a valid integer value.")
	} else if stock < 0 {
		ve.Add("stock", "Number must be at least 0.")
	}

	categoryID, err := p.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			return err
		}
		ve.Add("category", "Not a valid choice.")
	}

	if err := ve.OrNil(); err != nil {
		return err
	}

	product.Title = title
	product.Description = strings.TrimSpace(input.Description)
	product.Price = price.Round(2)
	product.Stock = stock
	product.CategoryID = categoryID
	product.Category = nil
	return nil
}

// 空字串或 0 代表不分類
func (p *ProductService) resolveCategory(ctx context.Context, raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	category, err := p.store.GetCategoryByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, persistenceErr(err)
	}
	return &category.ID, nil
}

var _ IProductService = (*ProductService)(nil)
