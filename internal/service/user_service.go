package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength    = 150
	maxNameLength     = 120
	minPasswordLength = 6
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Confirm  string
}

type IUserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type UserService struct {
	store      db.IStore
	adminEmail string
}

// adminEmail 註冊時 email 相同者為管理員, 空字串代表沒有管理員
func NewUserService(store db.IStore, adminEmail string) IUserService {
	if store == nil {
		panic("store is nil")
	}
	return &UserService{
		store:      store,
		adminEmail: adminEmail,
	}
}

// IsAdminEmail 不分大小寫比對, 只在註冊時判斷一次
func IsAdminEmail(email, adminEmail string) bool {
	adminEmail = strings.TrimSpace(adminEmail)
	if adminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), adminEmail)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegister(input RegisterInput) error {
	ve := NewValidationError()

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		ve.Add("email", "This field is required.")
	case utf8.RuneCountInString(email) > maxEmailLength:
		ve.Add("email", "Field cannot be longer than 150 characters.")
	default:
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			ve.Add("email", "Invalid email address.")
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(input.Name)) > maxNameLength {
		ve.Add("name", "Field cannot be longer than 120 characters.")
	}

	if input.Password == "" {
		ve.Add("password", "This field is required.")
	} else if utf8.RuneCountInString(input.Password) < minPasswordLength {
		ve.Add("password", "Field must be at least 6 characters long.")
	}
	if input.Confirm != input.Password {
		ve.Add("confirm", "Field must be equal to password.")
	}

	return ve.OrNil()
}

func (u *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	// 檢查email是否已存在
	existing, err := u.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, db.ErrRecordNotFound) {
		return nil, persistenceErr(err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		IsAdmin:      IsAdminEmail(email, u.adminEmail),
	}
	if err := u.store.CreateUser(ctx, user); err != nil {
		return nil, persistenceErr(err)
	}
	return user, nil
}

// Authenticate 帳號不存在與密碼錯誤回傳同一個錯誤
func (u *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := u.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistenceErr(err)
	}
	return user, nil
}

// Authorize 未登入 ErrUnauthorized, 需要管理員但不是 ErrForbidden
func Authorize(user *model.User, adminOnly bool) error {
	if user == nil {
		return ErrUnauthorized
	}
	if adminOnly && !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}

var _ IUserService = (*UserService)(nil)
