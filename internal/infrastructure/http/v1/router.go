// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktally/internal/domain/catalog/category"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/catalog/supplier"
	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/sale"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/http/v1/handlers"
	"stocktally/internal/infrastructure/http/v1/middleware"
	"stocktally/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger

	Products   *product.Service
	Categories *category.Service
	Suppliers  *supplier.Service
	Stock      *stock.Service
	Ledger     *ledger.Service
	Sales      *sale.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1
	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")
	{
		handlers.NewProductHandler(base, cfg.Products).
			RegisterRoutes(api.Group("/products"))
		handlers.NewCategoryHandler(base, cfg.Categories).
			RegisterRoutes(api.Group("/categories"))
		handlers.NewSupplierHandler(base, cfg.Suppliers).
			RegisterRoutes(api.Group("/suppliers"))
		handlers.NewStockHandler(base, cfg.Stock, cfg.Ledger).
			RegisterRoutes(api.Group("/stock"))
		handlers.NewSaleHandler(base, cfg.Sales).
			RegisterRoutes(api.Group("/sales"))
	}

	return router
}
