package service

import (
	"context"
	"strings"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	store    *memdb.MemoryDB
	images   *storage.LocalStorage
	service  IProductService
	category *model.Category
}

func (s *ProductServiceTestSuite) SetupTest() {
	var err error
	s.store = memdb.NewMemoryDB()
	s.images, err = storage.NewLocalStorage(s.T().TempDir())
	require.NoError(s.T(), err)
	s.service = NewProductService(s.store, s.images)

	s.category = &model.Category{Name: "Electronics"}
	require.NoError(s.T(), s.store.CreateCategory(context.Background(), s.category))
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (s *ProductServiceTestSuite) TestCreateProduct() {
	ctx := context.Background()
	product, err := s.service.CreateProduct(ctx, ProductInput{
		Title:       "  Laptop ",
		Description: "Fast",
		Price:       "70000.5",
		Stock:       "5",
		CategoryID:  key(s.category.ID),
	}, &ImageUpload{Filename: "laptop.png", Reader: strings.NewReader("img")})
	require.NoError(s.T(), err)
	require.NotZero(s.T(), product.ID)
	require.Equal(s.T(), "Laptop", product.Title)
	require.True(s.T(), product.Price.Equal(decimal.RequireFromString("70000.5")))
	require.NotNil(s.T(), product.Image)
	require.Equal(s.T(), "laptop.png", *product.Image)
	require.NotNil(s.T(), product.CategoryID)

	got, err := s.service.GetProduct(ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Electronics", got.Category.Name)
}

func (s *ProductServiceTestSuite) TestCreateProduct_Validation() {
	ctx := context.Background()
	_, err := s.service.CreateProduct(ctx, ProductInput{
		Title:      " ",
		Price:      "-1",
		Stock:      "abc",
		CategoryID: "999",
	}, &ImageUpload{Filename: "x.png", Reader: strings.NewReader("img")})

	ve, ok := IsValidationError(err)
	require.True(s.T(), ok)
	require.Contains(s.T(), ve.Fields, "title")
	require.Contains(s.T(), ve.Fields, "price")
	require.Contains(s.T(), ve.Fields, "stock")
	require.Contains(s.T(), ve.Fields, "category")

	products, err := s.store.GetAllProducts(ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), products)

	// 驗證失敗時不存圖片
	path, err := s.images.Path("x.png")
	require.NoError(s.T(), err)
	require.NoFileExists(s.T(), path)
}

func (s *ProductServiceTestSuite) TestCreateProduct_NoCategory() {
	ctx := context.Background()
	for _, raw := range []string{"", "0"} {
		product, err := s.service.CreateProduct(ctx, ProductInput{Title: "Pen", Price: "0", Stock: "0", CategoryID: raw}, nil)
		require.NoError(s.T(), err)
		require.Nil(s.T(), product.CategoryID)
		require.Nil(s.T(), product.Image)
	}
}

func (s *ProductServiceTestSuite) TestUpdateProduct() {
	ctx := context.Background()
	product, err := s.service.CreateProduct(ctx, ProductInput{Title: "A", Price: "10", Stock: "1"},
		&ImageUpload{Filename: "a.png", Reader: strings.NewReader("1")})
	require.NoError(s.T(), err)

	// 沒有新圖片時保留原本的
	updated, err := s.service.UpdateProduct(ctx, product.ID, ProductInput{Title: "A2", Price: "20", Stock: "3"}, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "A2", updated.Title)
	require.Equal(s.T(), "a.png", *updated.Image)

	// 同名檔案不覆蓋
	updated, err = s.service.UpdateProduct(ctx, product.ID, ProductInput{Title: "A2", Price: "20", Stock: "3"},
		&ImageUpload{Filename: "a.png", Reader: strings.NewReader("2")})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "a_1.png", *updated.Image)

	got, err := s.service.GetProduct(ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, got.Stock)
	require.True(s.T(), got.Price.Equal(decimal.NewFromInt(20)))
}

func (s *ProductServiceTestSuite) TestUpdateProduct_NotFound() {
	_, err := s.service.UpdateProduct(context.Background(), 404, ProductInput{Title: "A", Price: "1", Stock: "1"}, nil)
	require.ErrorIs(s.T(), err, ErrProductNotFound)
}

func (s *ProductServiceTestSuite) TestUpdateProduct_ValidationKeepsRow() {
	ctx := context.Background()
	product, err := s.service.CreateProduct(ctx, ProductInput{Title: "A", Price: "10", Stock: "1"}, nil)
	require.NoError(s.T(), err)

	_, err = s.service.UpdateProduct(ctx, product.ID, ProductInput{Title: "B", Price: "10", Stock: "-5"}, nil)
	_, ok := IsValidationError(err)
	require.True(s.T(), ok)

	got, err := s.service.GetProduct(ctx, product.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "A", got.Title)
	require.Equal(s.T(), 1, got.Stock)
}

func (s *ProductServiceTestSuite) TestListProducts() {
	ctx := context.Background()
	for i := range 8 {
		title := "Phone"
		if i%2 == 0 {
			title = "Laptop"
		}
		createTestProduct(s.T(), s.store, title, 1, 1)
	}

	page, err := s.service.ListProducts(ctx, "", 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, page.Page)
	require.Len(s.T(), page.Products, 6)
	require.EqualValues(s.T(), 8, page.Total)
	require.Equal(s.T(), 2, page.Pages())
	require.Len(s.T(), page.Categories, 1)

	page, err = s.service.ListProducts(ctx, "", 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Products, 2)

	page, err = s.service.ListProducts(ctx, "LAP", 1)
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Products, 4)
	require.Equal(s.T(), "LAP", page.Query)
}
