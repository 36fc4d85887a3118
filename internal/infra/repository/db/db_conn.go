package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func GetDSN(dbname, host, port, user, pas string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pas, host, port, dbname)
}

// GetDbConn 建立 pgx pool, gorm 共用同一個 pool
// 呼叫端負責關閉 pool
func GetDbConn(ctx context.Context, dsn string, logger *zerolog.Logger) (*gorm.DB, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return db, pool, nil
}
