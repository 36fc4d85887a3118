package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateStock(ctx context.Context, id uint, stock int) error
}

// ICategoryRepository Category 相關操作介面
type ICategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id uint) (*model.Category, error)
	GetAllCategories(ctx context.Context) ([]model.Category, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	CreateOrderItem(ctx context.Context, item *model.OrderItem) error
	UpdateOrderTotal(ctx context.Context, id uint, total decimal.Decimal) error
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type IStore interface {
	IProductRepository
	ICategoryRepository
	IOrderRepository
	IUserRepository
}

// ITxStore fn 回傳錯誤時整筆 rollback
type ITxStore interface {
	IStore
	ExecTx(ctx context.Context, fn func(IStore) error) error
}

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	ITxStore
	GetDB() *gorm.DB
	InitMigrate() error
	ResetTables() error
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductRepo
	*CategoryRepo
	*OrderRepo
	*UserRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:           db,
		dbDao:        dbDao,
		ProductRepo:  NewProductRepo(dbDao),
		CategoryRepo: NewCategoryRepo(dbDao),
		OrderRepo:    NewOrderRepo(dbDao),
		UserRepo:     NewUserRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

func (u *UnifiedDBImpl) ResetTables() error {
	return u.dbDao.ResetTables()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

// ExecTx 在同一個交易內執行 fn, 任何錯誤都會 rollback
func (u *UnifiedDBImpl) ExecTx(ctx context.Context, fn func(IStore) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

var (
	_ UnifiedDB           = (*UnifiedDBImpl)(nil)
	_ IProductRepository  = (*ProductRepo)(nil)
	_ ICategoryRepository = (*CategoryRepo)(nil)
	_ IOrderRepository    = (*OrderRepo)(nil)
	_ IUserRepository     = (*UserRepo)(nil)
)
