// Package category provides the product category catalog.
package category

import (
	"context"
	"fmt"
	"time"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
)

// Category groups products for browsing and reporting.
type Category struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a category with a generated ID and timestamps.
func New(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        id.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks category invariants.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines storage operations for categories.
// Name uniqueness is enforced by the storage layer.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	List(ctx context.Context) ([]Category, error)
}

// Service provides category CRUD.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create creates a new category.
func (s *Service) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if existing, err := s.repo.GetByName(ctx, c.Name); err == nil && existing != nil {
		return apperror.NewDuplicate("category", "name", c.Name)
	}
	return s.run(ctx, "create category", func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	c, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("get category: %w", err))
	}
	return c, nil
}

// Update updates a category.
func (s *Service) Update(ctx context.Context, c *Category) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.run(ctx, "update category", func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
}

// Delete removes a category. Products referencing it keep working;
// storage clears the reference (SET NULL).
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	if _, err := s.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return s.run(ctx, "delete category", func(ctx context.Context) error {
		return s.repo.Delete(ctx, categoryID)
	})
}

// List retrieves all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list categories: %w", err))
	}
	return categories, nil
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
