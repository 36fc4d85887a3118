package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type CategoryRepo struct {
	db *DbDao
}

func NewCategoryRepo(db *DbDao) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (s *CategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *CategoryRepo) GetCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &category, nil
}

func (s *CategoryRepo) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}
