// Package main is the entry point for the stocktally API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stocktally/internal/config"
	"stocktally/internal/domain/catalog/category"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/catalog/supplier"
	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/sale"
	"stocktally/internal/domain/stock"
	v1 "stocktally/internal/infrastructure/http/v1"
	"stocktally/internal/infrastructure/storage/postgres"
	"stocktally/pkg/logger"
	"stocktally/pkg/numerator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stocktally: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting stocktally server", "config", cfg.String())

	// --- Database ---
	if cfg.Database.Migrate {
		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema migrations applied")
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns

	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.Database.Timeout)
	pool, err := postgres.NewPool(connectCtx, poolCfg)
	cancelConnect()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Storage and services ---
	txManager := postgres.NewTxManager(pool)

	productRepo := postgres.NewProductRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	saleRepo := postgres.NewSaleRepo(txManager)
	categoryRepo := postgres.NewCategoryRepo(txManager)
	supplierRepo := postgres.NewSupplierRepo(txManager)

	numbers := numerator.NewService(postgres.NewNumberSource(txManager))

	productSvc := product.NewService(productRepo, ledgerRepo, txManager)
	categorySvc := category.NewService(categoryRepo, txManager)
	supplierSvc := supplier.NewService(supplierRepo, txManager)
	stockSvc := stock.NewService(productRepo, ledgerRepo, txManager)
	ledgerSvc := ledger.NewService(ledgerRepo)
	saleSvc := sale.NewService(saleRepo, productRepo, stockSvc, numbers, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool.Unwrap(),
		Logger:     log,
		Products:   productSvc,
		Categories: categorySvc,
		Suppliers:  supplierSvc,
		Stock:      stockSvc,
		Ledger:     ledgerSvc,
		Sales:      saleSvc,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout.Read,
		WriteTimeout: cfg.Server.Timeout.Write,
		IdleTimeout:  cfg.Server.Timeout.Idle,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
