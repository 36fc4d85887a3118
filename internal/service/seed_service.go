package service

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

// SeedResult 本次實際新增的筆數
type SeedResult struct {
	Categories int
	Products   int
}

// SeedCatalog 冪等, 同名分類與同標題商品已存在就略過
func SeedCatalog(ctx context.Context, store db.ITxStore, seed *config.SeedConfig) (SeedResult, error) {
	var result SeedResult
	err := store.ExecTx(ctx, func(tx db.IStore) error {
		result = SeedResult{}

		categories, err := tx.GetAllCategories(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]uint, len(categories))
		for _, c := range categories {
			byName[c.Name] = c.ID
		}
		for _, sc := range seed.Categories {
			if _, ok := byName[sc.Name]; ok {
				continue
			}
			category := &model.Category{Name: sc.Name}
			if err := tx.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category %s: %w", sc.Name, err)
			}
			byName[category.Name] = category.ID
			result.Categories++
		}

		products, err := tx.GetAllProducts(ctx)
		if err != nil {
			return err
		}
		existing := make(map[string]struct{}, len(products))
		for _, p := range products {
			existing[p.Title] = struct{}{}
		}
		for _, sp := range seed.Products {
			if _, ok := existing[sp.Title]; ok {
				continue
			}
			price, err := decimal.NewFromString(sp.Price)
			if err != nil {
				return fmt.Errorf("invalid price for %s: %w", sp.Title, err)
			}
			product := &model.Product{
				Title:       sp.Title,
				Description: sp.Description,
				Price:       price.Round(2),
				Stock:       sp.Stock,
			}
			if sp.Category != "" {
				id, ok := byName[sp.Category]
				if !ok {
					return fmt.Errorf("unknown category %s for %s", sp.Category, sp.Title)
				}
				product.CategoryID = &id
			}
			if err := tx.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("failed to create product %s: %w", sp.Title, err)
			}
			existing[sp.Title] = struct{}{}
			result.Products++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, persistenceErr(err)
	}
	return result, nil
}
