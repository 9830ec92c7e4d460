// Package product provides the product catalog.
// A product's stock fields (CurrentStock) are cached running balances
// owned by the stock mutation service and the sale settlement engine;
// catalog updates never write them directly.
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

// Product represents a sellable catalog item.
type Product struct {
	ID id.ID `db:"id" json:"id"`

	// SKU is a human-readable identifier, unique across the catalog.
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// BuyPrice is the unit acquisition cost; SellPrice the unit sale price.
	BuyPrice  decimal.Decimal `db:"buy_price" json:"buyPrice"`
	SellPrice decimal.Decimal `db:"sell_price" json:"sellPrice"`

	// CurrentStock is the cached running balance. It must equal the
	// NewStock of the product's latest ledger movement; that holds
	// because every mutation goes through the stock service.
	CurrentStock int64 `db:"current_stock" json:"currentStock"`

	// LowStockThreshold marks the level at or below which the product
	// is flagged for replenishment.
	LowStockThreshold int64 `db:"low_stock_threshold" json:"lowStockThreshold"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with a generated ID and timestamps.
func New(sku, name string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        id.New(),
		SKU:       sku,
		Name:      name,
		BuyPrice:  decimal.Zero,
		SellPrice: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.BuyPrice.IsNegative() {
		return apperror.NewValidation("buy price cannot be negative").
			WithDetail("field", "buyPrice")
	}
	if p.SellPrice.IsNegative() {
		return apperror.NewValidation("sell price cannot be negative").
			WithDetail("field", "sellPrice")
	}
	if p.LowStockThreshold < 0 {
		return apperror.NewValidation("low stock threshold cannot be negative").
			WithDetail("field", "lowStockThreshold")
	}
	return nil
}

// IsLowStock reports whether the cached balance is at or below the
// replenishment threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.LowStockThreshold
}

// UnitMargin returns sell price minus buy price.
func (p *Product) UnitMargin() decimal.Decimal {
	return p.SellPrice.Sub(p.BuyPrice)
}

// Touch updates the UpdatedAt timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
