package ledger

import (
	"context"
	"fmt"
	"time"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

// Service provides read-side queries over the ledger.
// Writes go through the stock mutation service, never through here.
type Service struct {
	repo Repository
}

// NewService creates a new ledger query service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a single movement.
func (s *Service) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	m, err := s.repo.GetByID(ctx, movementID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("get movement: %w", err))
	}
	return m, nil
}

// List retrieves movements matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Movement, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewValidation("date range end precedes start").
			WithDetail("from", *filter.From).
			WithDetail("to", *filter.To)
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperror.NewValidation("unknown movement type").
			WithDetail("type", string(*filter.Type))
	}

	movements, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list movements: %w", err))
	}
	return movements, nil
}

// History retrieves a product's movement history, newest first.
func (s *Service) History(ctx context.Context, productID id.ID, limit int) ([]Movement, error) {
	f := ByProduct(productID)
	f.Limit = limit
	return s.List(ctx, f)
}

// Recent retrieves the most recent n movements across all products.
func (s *Service) Recent(ctx context.Context, n int) ([]Movement, error) {
	return s.List(ctx, Filter{Limit: n})
}

// Summary reduces the movements matching the filter into net counters.
func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	movements, err := s.List(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(movements), nil
}

// SummaryForPeriod is a convenience wrapper for date-bounded summaries.
func (s *Service) SummaryForPeriod(ctx context.Context, from, to time.Time) (Summary, error) {
	return s.Summary(ctx, Filter{From: &from, To: &to})
}
