// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"fmt"
	"time"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
)

// Supplier is a source of purchased goods.
type Supplier struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContactName string    `db:"contact_name" json:"contactName,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	Email       string    `db:"email" json:"email,omitempty"`
	Address     string    `db:"address" json:"address,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a supplier with a generated ID and timestamps.
func New(name string) *Supplier {
	now := time.Now().UTC()
	return &Supplier{
		ID:        id.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks supplier invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines storage operations for suppliers.
// Name uniqueness is enforced by the storage layer.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	GetByName(ctx context.Context, name string) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	List(ctx context.Context) ([]Supplier, error)
}

// Service provides supplier CRUD.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create creates a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, sup.Name); err == nil && existing != nil {
		return apperror.NewDuplicate("supplier", "name", sup.Name)
	}
	return s.run(ctx, "create supplier", func(ctx context.Context) error {
		return s.repo.Create(ctx, sup)
	})
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("get supplier: %w", err))
	}
	return sup, nil
}

// Update updates a supplier.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.UpdatedAt = time.Now().UTC()
	return s.run(ctx, "update supplier", func(ctx context.Context) error {
		return s.repo.Update(ctx, sup)
	})
}

// Delete removes a supplier. Products referencing it keep working;
// storage clears the reference (SET NULL).
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	if _, err := s.GetByID(ctx, supplierID); err != nil {
		return err
	}
	return s.run(ctx, "delete supplier", func(ctx context.Context) error {
		return s.repo.Delete(ctx, supplierID)
	})
}

// List retrieves all suppliers ordered by name.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list suppliers: %w", err))
	}
	return suppliers, nil
}

func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := s.txManager.RunInTransaction(ctx, fn)
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
