// Package sale provides the sale aggregate and the settlement engine
// that commits a multi-line sale as a single atomic unit.
package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

// Sale is the aggregate record of a settled sale. Its totals are
// derivable from the lines and must match their sums exactly:
// TotalAmount = Σ item.Subtotal, TotalCost = Σ item.Quantity*UnitCost,
// TotalProfit = TotalAmount - TotalCost, ItemCount = Σ item.Quantity.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the generated sale number, unique across all sales.
	Number string `db:"number" json:"number"`

	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	TotalCost   decimal.Decimal `db:"total_cost" json:"totalCost"`
	TotalProfit decimal.Decimal `db:"total_profit" json:"totalProfit"`
	ItemCount   int64           `db:"item_count" json:"itemCount"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Items are the sale lines; they cascade with the sale.
	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem is one committed line of a sale.
type SaleItem struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted at settlement time so later renames
	// do not rewrite sale history.
	ProductName string `db:"product_name" json:"productName"`

	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	UnitCost  decimal.Decimal `db:"unit_cost" json:"unitCost"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
	Profit    decimal.Decimal `db:"profit" json:"profit"`
}

// CartItem is a transient candidate line for a pending sale. The
// AvailableStock field is the snapshot shown during cart construction;
// settlement never trusts it and re-validates against persisted stock.
type CartItem struct {
	ProductID id.ID  `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`

	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`

	AvailableStock int64 `json:"availableStock"`
}

// Validate checks a single cart line's invariants.
func (c *CartItem) Validate(ctx context.Context) error {
	if id.IsNil(c.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if c.Quantity <= 0 {
		return apperror.NewInvalidQuantity("cart quantity must be positive").
			WithDetail("product_id", c.ProductID.String()).
			WithDetail("quantity", c.Quantity)
	}
	if c.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("product_id", c.ProductID.String())
	}
	return nil
}

// Subtotal returns quantity times unit price.
func (c *CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity))
}

// Profit returns (unit price - unit cost) times quantity.
func (c *CartItem) Profit() decimal.Decimal {
	return c.UnitPrice.Sub(c.UnitCost).Mul(decimal.NewFromInt(c.Quantity))
}

// newSale builds the aggregate and its lines from validated cart items,
// accumulating totals from the same per-line figures that are stored.
func newSale(number, notes string, items []SaleItem) *Sale {
	s := &Sale{
		ID:          id.New(),
		Number:      number,
		TotalAmount: decimal.Zero,
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
		Items:       items,
	}

	for i := range items {
		items[i].SaleID = s.ID
		s.TotalAmount = s.TotalAmount.Add(items[i].Subtotal)
		s.TotalCost = s.TotalCost.Add(items[i].UnitCost.Mul(decimal.NewFromInt(items[i].Quantity)))
		s.ItemCount += items[i].Quantity
	}
	s.TotalProfit = s.TotalAmount.Sub(s.TotalCost)

	return s
}
