package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeader = []string{"Order ID", "User", "Created", "Total"}

type IExportService interface {
	ExportOrders(ctx context.Context, w io.Writer) error
	ExportOrdersToFile(ctx context.Context, dir string) (string, error)
}

// ExportService 全表掃描, 沒有分頁
type ExportService struct {
	store db.IStore
}

func NewExportService(store db.IStore) IExportService {
	if store == nil {
		panic("store is nil")
	}
	return &ExportService{store: store}
}

func (e *ExportService) ExportOrders(ctx context.Context, w io.Writer) error {
	orders, err := e.store.GetAllOrders(ctx)
	if err != nil {
		return persistenceErr(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, order := range orders {
		email := ""
		if order.User != nil {
			email = order.User.Email
		}
		record := []string{
			strconv.FormatUint(uint64(order.ID), 10),
			email,
			order.CreatedAt.Format(exportTimeLayout),
			order.Total.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportOrdersToFile 寫到 dir/orders_export.csv, 回傳完整路徑
func (e *ExportService) ExportOrdersToFile(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export folder: %w", err)
	}
	path := filepath.Join(dir, constants.ExportFileName)
	tmp, err := os.CreateTemp(dir, constants.ExportFileName+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := e.ExportOrders(ctx, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

var _ IExportService = (*ExportService)(nil)
