// Package ledger provides the append-only stock movement ledger.
// Movements are the single source of truth for stock history: every
// stock-affecting event is recorded exactly once and never edited.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"stocktally/internal/core/id"
)

// MovementType is a closed set of stock-affecting event kinds.
type MovementType string

const (
	// TypeIn records goods received into stock.
	TypeIn MovementType = "IN"
	// TypeOut records a manual stock removal.
	TypeOut MovementType = "OUT"
	// TypeAdjustment records a correction to an absolute stock level.
	// Its quantity is a signed delta and may be negative.
	TypeAdjustment MovementType = "ADJUSTMENT"
	// TypeSale records a removal caused by a settled sale line.
	TypeSale MovementType = "SALE"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case TypeIn, TypeOut, TypeAdjustment, TypeSale:
		return true
	}
	return false
}

// Movement is an immutable record of a single stock-affecting event.
// Quantity is stored as an absolute value for IN, OUT and SALE; for
// ADJUSTMENT it is the signed delta applied to the previous stock.
type Movement struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Type      MovementType `db:"type" json:"type"`
	Quantity  int64        `db:"quantity" json:"quantity"`

	// PreviousStock is the cached balance captured immediately before
	// the mutation; NewStock is the balance after it. Together they make
	// every ledger entry auditable without replaying the history.
	PreviousStock int64 `db:"previous_stock" json:"previousStock"`
	NewStock      int64 `db:"new_stock" json:"newStock"`

	// UnitCost is the acquisition or sale cost per unit, when known.
	UnitCost *decimal.Decimal `db:"unit_cost" json:"unitCost,omitempty"`

	// Reference links the movement to its origin (e.g. a sale number
	// or a purchase order).
	Reference string `db:"reference" json:"reference,omitempty"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated ID and timestamp.
func NewMovement(productID id.ID, movementType MovementType, quantity, previousStock, newStock int64) Movement {
	return Movement{
		ID:            id.New(),
		ProductID:     productID,
		Type:          movementType,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		CreatedAt:     time.Now().UTC(),
	}
}

// SignedQuantity returns the net effect of the movement on stock.
func (m *Movement) SignedQuantity() int64 {
	switch m.Type {
	case TypeOut, TypeSale:
		return -m.Quantity
	case TypeAdjustment:
		return m.Quantity // already signed
	default:
		return m.Quantity
	}
}
