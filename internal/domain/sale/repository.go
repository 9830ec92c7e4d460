package sale

import (
	"context"
	"time"

	"stocktally/internal/core/id"
)

// Repository defines storage operations for sales and their lines.
type Repository interface {
	// Create inserts the sale aggregate row. Uniqueness of the sale
	// number is enforced by the storage layer.
	Create(ctx context.Context, s *Sale) error

	// CreateItems inserts the sale's lines.
	CreateItems(ctx context.Context, items []SaleItem) error

	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error)

	// Delete removes the sale and cascades its items.
	Delete(ctx context.Context, saleID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]Sale, error)

	// CountItemsByProduct returns the number of sale lines referencing
	// a product. Used to restrict product deletion.
	CountItemsByProduct(ctx context.Context, productID id.ID) (int64, error)
}

// ListFilter narrows sale listings; ordered by creation time descending.
type ListFilter struct {
	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}
