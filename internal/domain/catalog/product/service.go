package product

import (
	"context"
	"fmt"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
	"stocktally/internal/domain/ledger"
	"stocktally/pkg/logger"
)

// Service provides catalog operations for products.
// Stock levels are read here but never written; mutations go through
// the stock service.
type Service struct {
	repo      Repository
	movements ledger.Repository
	txManager tx.Manager
}

// NewService creates a new product catalog service.
func NewService(repo Repository, movements ledger.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		movements: movements,
		txManager: txManager,
	}
}

// Create creates a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing != nil {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("create product: %w", err))
	}

	logger.Info(ctx, "product created", "id", p.ID, "sku", p.SKU)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("get product: %w", err))
	}
	return p, nil
}

// GetBySKU retrieves a product by its SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("get product by sku: %w", err))
	}
	return p, nil
}

// Update persists catalog field changes. The cached stock balance is
// deliberately not writable here.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.Touch()
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("update product: %w", err))
	}
	return nil
}

// Delete removes a product. Restricted while ledger movements reference
// it: history must survive the catalog entry.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if _, err := s.GetByID(ctx, productID); err != nil {
		return err
	}

	count, err := s.movements.CountByProduct(ctx, productID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("count movements: %w", err))
	}
	if count > 0 {
		return apperror.NewConflict("product has stock movements and cannot be deleted").
			WithDetail("product_id", productID.String()).
			WithDetail("movements", count)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, productID)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewStorage(fmt.Errorf("delete product: %w", err))
	}

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

// List retrieves products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

// LowStock retrieves products at or below their replenishment threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	return s.List(ctx, ListFilter{LowStockOnly: true})
}
