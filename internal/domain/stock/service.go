package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/ledger"
	"stocktally/pkg/logger"
)

// Service provides the primitive stock mutations: receive, remove,
// adjust. Each operation locks the product row, plans the change with
// the balance calculator, then appends one ledger movement and persists
// the new cached balance in the same transaction.
type Service struct {
	products  product.Repository
	movements ledger.Repository
	txManager tx.Manager
}

// NewService creates a new stock mutation service.
func NewService(products product.Repository, movements ledger.Repository, txManager tx.Manager) *Service {
	return &Service{
		products:  products,
		movements: movements,
		txManager: txManager,
	}
}

// AddStockInput describes a goods receipt.
type AddStockInput struct {
	ProductID id.ID
	Quantity  int64

	// UnitCost is the acquisition cost per unit, when known.
	UnitCost  *decimal.Decimal
	Reference string
	Notes     string
}

// AddStock receives Quantity units into stock and returns the created
// IN movement.
func (s *Service) AddStock(ctx context.Context, in AddStockInput) (*ledger.Movement, error) {
	var created *ledger.Movement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		plan, err := PlanReceipt(p.ID, p.CurrentStock, in.Quantity)
		if err != nil {
			return err
		}

		m := ledger.NewMovement(p.ID, ledger.TypeIn, in.Quantity, plan.Previous, plan.New)
		m.UnitCost = in.UnitCost
		m.Reference = in.Reference
		m.Notes = in.Notes

		if err := s.commit(ctx, &m, plan); err != nil {
			return err
		}
		created = &m
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "add stock")
	}

	logger.Info(ctx, "stock received",
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"new_stock", created.NewStock,
	)
	return created, nil
}

// RemoveStockInput describes a manual stock removal.
type RemoveStockInput struct {
	ProductID id.ID
	Quantity  int64
	Reference string
	Notes     string
}

// RemoveStock removes Quantity units from stock and returns the created
// OUT movement. Fails with InsufficientStock if the product's current
// balance cannot cover the removal; nothing is persisted in that case.
func (s *Service) RemoveStock(ctx context.Context, in RemoveStockInput) (*ledger.Movement, error) {
	var created *ledger.Movement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		plan, err := PlanRemoval(p.ID, p.CurrentStock, in.Quantity)
		if err != nil {
			return err
		}

		m := ledger.NewMovement(p.ID, ledger.TypeOut, in.Quantity, plan.Previous, plan.New)
		m.Reference = in.Reference
		m.Notes = in.Notes

		if err := s.commit(ctx, &m, plan); err != nil {
			return err
		}
		created = &m
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "remove stock")
	}

	logger.Info(ctx, "stock removed",
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"new_stock", created.NewStock,
	)
	return created, nil
}

// AdjustStockInput describes a correction to an absolute stock level.
type AdjustStockInput struct {
	ProductID id.ID
	NewLevel  int64
	Notes     string
}

// AdjustStock sets the product's stock to NewLevel regardless of
// direction and returns the created ADJUSTMENT movement, whose quantity
// is the signed delta. This is the only mutation allowed to reduce
// stock past a removal's limits, but never below zero.
func (s *Service) AdjustStock(ctx context.Context, in AdjustStockInput) (*ledger.Movement, error) {
	var created *ledger.Movement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		plan, err := PlanAdjustment(p.ID, p.CurrentStock, in.NewLevel)
		if err != nil {
			return err
		}

		m := ledger.NewMovement(p.ID, ledger.TypeAdjustment, plan.Delta, plan.Previous, plan.New)
		m.Notes = in.Notes

		if err := s.commit(ctx, &m, plan); err != nil {
			return err
		}
		created = &m
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "adjust stock")
	}

	logger.Info(ctx, "stock adjusted",
		"product_id", in.ProductID,
		"new_level", in.NewLevel,
		"delta", created.Quantity,
	)
	return created, nil
}

// SaleMovementInput describes one settled sale line.
type SaleMovementInput struct {
	ProductID id.ID
	Quantity  int64
	UnitCost  decimal.Decimal

	// Reference carries the sale number.
	Reference string
}

// RecordSaleMovement removes stock for one settled sale line and tags
// the movement SALE. It is invoked only by the sale settlement engine
// inside its transaction; the nested RunInTransaction call reuses the
// transaction already carried by ctx rather than opening its own.
func (s *Service) RecordSaleMovement(ctx context.Context, in SaleMovementInput) (*ledger.Movement, error) {
	var created *ledger.Movement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		plan, err := PlanRemoval(p.ID, p.CurrentStock, in.Quantity)
		if err != nil {
			return err
		}

		m := ledger.NewMovement(p.ID, ledger.TypeSale, in.Quantity, plan.Previous, plan.New)
		m.UnitCost = &in.UnitCost
		m.Reference = in.Reference

		if err := s.commit(ctx, &m, plan); err != nil {
			return err
		}
		created = &m
		return nil
	})
	if err != nil {
		return nil, normalizeErr(err, "record sale movement")
	}

	return created, nil
}

// commit appends the movement and persists the planned balance.
// Runs inside the operation's transaction: both writes land or neither.
func (s *Service) commit(ctx context.Context, m *ledger.Movement, plan Plan) error {
	if err := s.movements.Append(ctx, m); err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	if err := s.products.UpdateStock(ctx, m.ProductID, plan.New); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// normalizeErr keeps typed business errors intact and wraps everything
// else as a storage failure so no raw driver error crosses the API edge.
func normalizeErr(err error, op string) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStorage(fmt.Errorf("%s: %w", op, err))
}
