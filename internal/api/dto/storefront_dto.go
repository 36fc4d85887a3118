package dto

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// ProductPageDTO 首頁商品列表
type ProductPageDTO struct {
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
	Query      string           `json:"q"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
	PerPage    int              `json:"per_page"`
	Total      int64            `json:"total"`
}

func NewProductPageDTO(page *model.ProductPage) ProductPageDTO {
	return ProductPageDTO{
		Products:   page.Products,
		Categories: page.Categories,
		Query:      page.Query,
		Page:       page.Page,
		Pages:      page.Pages(),
		PerPage:    page.PerPage,
		Total:      page.Total,
	}
}

// UserDTO 表示用戶資訊
type UserDTO struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

func NewUserDTO(user *model.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}
}

// ProductFormDTO 後台編輯頁, 新增時 Product 為 nil
type ProductFormDTO struct {
	Product    *model.Product   `json:"product,omitempty"`
	Categories []model.Category `json:"categories"`
}

type AdminProductsDTO struct {
	Products []model.Product `json:"products"`
}

type OrdersDTO struct {
	Orders []model.Order `json:"orders"`
}

// CurrentUserDTO 登入/註冊頁顯示目前狀態
type CurrentUserDTO struct {
	User *UserDTO `json:"user"`
}
