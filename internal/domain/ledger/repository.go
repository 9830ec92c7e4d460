package ledger

import (
	"context"
	"time"

	"stocktally/internal/core/id"
)

// Repository defines storage operations for the movement ledger.
// Append is the only write; movements are never updated or deleted.
type Repository interface {
	// Append inserts one immutable movement row.
	// The movement must carry a valid product reference and the
	// previous stock captured under the same transaction as the
	// balance update it belongs to.
	Append(ctx context.Context, movement *Movement) error

	// GetByID retrieves a single movement.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// List retrieves movements matching the filter, ordered by
	// creation time descending.
	List(ctx context.Context, filter Filter) ([]Movement, error)

	// CountByProduct returns the number of movements referencing a
	// product. Used to restrict product deletion while history exists.
	CountByProduct(ctx context.Context, productID id.ID) (int64, error)
}

// Filter narrows ledger reads. All fields are optional; zero filter
// returns the full ledger, newest first.
type Filter struct {
	ProductID *id.ID
	Type      *MovementType

	// From and To bound the creation timestamp, both inclusive.
	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// ByProduct returns a filter for a single product's history.
func ByProduct(productID id.ID) Filter {
	return Filter{ProductID: &productID}
}

// ByType returns a filter for a single movement type.
func ByType(t MovementType) Filter {
	return Filter{Type: &t}
}
