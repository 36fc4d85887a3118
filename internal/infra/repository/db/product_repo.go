package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// 錯誤:
//   - ErrRecordNotFound: 商品不存在
func (s *ProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, productID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &product, nil
}

// ListProducts title 子字串查詢 + 分頁, 回傳符合條件的總筆數
func (s *ProductRepo) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Product{})
	if filter.Query != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Query+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := query.Preload("Category").Order("id").Find(&products).Error
	return products, total, err
}

func (s *ProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error
	return products, err
}

// Update - 更新商品全部欄位
func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Omit("Category").Save(product).Error
}

// Update - 更新庫存
func (s *ProductRepo) UpdateStock(ctx context.Context, id uint, stock int) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
