package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

// 寫入範例分類與商品, -reset 先清空所有資料表
func main() {
	seedFile := flag.String("file", "docs/seed.yaml", "seed yaml path")
	reset := flag.Bool("reset", false, "truncate all tables before seeding")
	flag.Parse()

	cf := config.GetConfig()
	if cf.IsMemoryStorage() {
		log.Fatal("seed requires STORAGE_DRIVER=postgres")
	}

	seed, err := config.LoadSeedConfig(*seedFile)
	if err != nil {
		log.Fatalf("failed to load seed file: %v", err)
	}

	dsn := db.GetDSN(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err := appcontext.RunDBMigration(cf.MigrationURL, dsn); err != nil {
		log.Fatalf("failed to run migration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := zerolog.Nop()
	gormDB, pool, err := db.GetDbConn(ctx, dsn, &logger)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()
	store := db.NewUnifiedDB(gormDB)

	if *reset {
		if err := store.ResetTables(); err != nil {
			log.Fatalf("failed to reset tables: %v", err)
		}
		log.Printf("all tables truncated")
	}

	result, err := service.SeedCatalog(ctx, store, seed)
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	log.Printf("seed completed, %d categories and %d products added", result.Categories, result.Products)
}
