// Package main provides a CLI tool for seeding the database with demo
// catalog data and opening stock.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/catalog/category"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/catalog/supplier"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/storage/postgres"
	"stocktally/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if err := postgres.Migrate(dbURL); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	productRepo := postgres.NewProductRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)

	categorySvc := category.NewService(postgres.NewCategoryRepo(txManager), txManager)
	supplierSvc := supplier.NewService(postgres.NewSupplierRepo(txManager), txManager)
	productSvc := product.NewService(productRepo, ledgerRepo, txManager)
	stockSvc := stock.NewService(productRepo, ledgerRepo, txManager)

	if err := seed(ctx, categorySvc, supplierSvc, productSvc, stockSvc); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

type demoProduct struct {
	sku       string
	name      string
	category  string
	buyPrice  string
	sellPrice string
	threshold int64
	opening   int64
}

var demoCategories = []string{"Beverages", "Snacks", "Household"}

var demoProducts = []demoProduct{
	{"BEV-001", "Sparkling Water 500ml", "Beverages", "0.40", "1.20", 24, 120},
	{"BEV-002", "Cold Brew Coffee 250ml", "Beverages", "1.10", "2.90", 12, 48},
	{"SNK-001", "Salted Peanuts 200g", "Snacks", "0.80", "1.95", 10, 60},
	{"SNK-002", "Dark Chocolate Bar", "Snacks", "1.25", "2.50", 15, 80},
	{"HSH-001", "Dish Soap 750ml", "Household", "1.60", "3.40", 8, 30},
}

func seed(
	ctx context.Context,
	categories *category.Service,
	suppliers *supplier.Service,
	products *product.Service,
	stockSvc *stock.Service,
) error {
	categoryIDs := make(map[string]id.ID, len(demoCategories))
	for _, name := range demoCategories {
		c := category.New(name)
		if err := categories.Create(ctx, c); err != nil {
			if apperror.HasCode(err, apperror.CodeDuplicate) {
				logger.Info(ctx, "category already exists, skipping", "name", name)
				continue
			}
			return fmt.Errorf("create category %s: %w", name, err)
		}
		categoryIDs[name] = c.ID
	}

	sup := supplier.New("Northline Wholesale")
	sup.ContactName = "R. Calloway"
	sup.Email = "orders@northline.example"
	if err := suppliers.Create(ctx, sup); err != nil && !apperror.HasCode(err, apperror.CodeDuplicate) {
		return fmt.Errorf("create supplier: %w", err)
	}

	for _, d := range demoProducts {
		p := product.New(d.sku, d.name)
		if catID, ok := categoryIDs[d.category]; ok {
			p.CategoryID = &catID
		}
		p.SupplierID = &sup.ID
		p.BuyPrice = decimal.RequireFromString(d.buyPrice)
		p.SellPrice = decimal.RequireFromString(d.sellPrice)
		p.LowStockThreshold = d.threshold

		if err := products.Create(ctx, p); err != nil {
			if apperror.HasCode(err, apperror.CodeDuplicate) {
				logger.Info(ctx, "product already exists, skipping", "sku", d.sku)
				continue
			}
			return fmt.Errorf("create product %s: %w", d.sku, err)
		}

		// Opening stock goes through the ledger like any other receipt.
		if _, err := stockSvc.AddStock(ctx, stock.AddStockInput{
			ProductID: p.ID,
			Quantity:  d.opening,
			UnitCost:  &p.BuyPrice,
			Reference: "SEED",
			Notes:     "opening stock",
		}); err != nil {
			return fmt.Errorf("opening stock for %s: %w", d.sku, err)
		}
	}

	return nil
}
