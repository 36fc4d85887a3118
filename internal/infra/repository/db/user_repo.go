package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type UserRepo struct {
	dbDao *DbDao
}

func NewUserRepo(dbDao *DbDao) *UserRepo {
	return &UserRepo{dbDao: dbDao}
}

// Create - 創建用戶
func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return s.dbDao.WithContext(ctx).Create(user).Error
}

// Read - 根據ID查詢用戶
func (s *UserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.dbDao.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// Read - 根據Email查詢用戶
func (s *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.dbDao.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}
