package product

import (
	"context"

	"stocktally/internal/core/id"
)

// Repository defines storage operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)

	// GetForUpdate retrieves the product with a row lock. Must be
	// called inside a transaction; the lock serializes conflicting
	// stock writers on the same product.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// Update persists catalog fields. CurrentStock is intentionally
	// excluded; only UpdateStock may change it.
	Update(ctx context.Context, p *Product) error

	// UpdateStock persists a new cached balance for the product.
	// Called only by the stock mutation service inside the same
	// transaction as the ledger append.
	UpdateStock(ctx context.Context, productID id.ID, newStock int64) error

	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]Product, error)
}

// ListFilter narrows product listings.
type ListFilter struct {
	Search     string
	CategoryID *id.ID
	SupplierID *id.ID

	// LowStockOnly keeps products at or below their threshold.
	LowStockOnly bool

	Limit  int
	Offset int
}
