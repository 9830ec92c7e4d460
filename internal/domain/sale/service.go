package sale

import (
	"context"
	"fmt"
	"time"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/core/tx"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/stock"
	"stocktally/pkg/logger"
	"stocktally/pkg/numerator"
)

// NumberPrefix is the sale number prefix; numbers look like
// POS-20260829-0001 and reset daily.
const NumberPrefix = "POS"

// Service is the sale settlement engine. It converts a cart into a
// committed Sale with its lines and one SALE movement per line, as a
// single all-or-nothing transaction.
type Service struct {
	sales     Repository
	products  product.Repository
	stock     *stock.Service
	numbers   numerator.Generator
	txManager tx.Manager
}

// NewService creates a new sale settlement service.
func NewService(
	sales Repository,
	products product.Repository,
	stockSvc *stock.Service,
	numbers numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		sales:     sales,
		products:  products,
		stock:     stockSvc,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Settle commits the cart. Inside one transaction it re-validates every
// line against the current locked stock (the snapshot carried in the
// cart is never trusted), generates the sale number, persists the sale
// and its lines, then records one SALE movement per line. Any failure
// at any step rolls the whole thing back: no sale, no lines, no
// movements, no stock changes remain visible.
func (s *Service) Settle(ctx context.Context, cart []CartItem, notes string) (*Sale, error) {
	if len(cart) == 0 {
		return nil, apperror.NewEmptyCart()
	}
	for i := range cart {
		if err := cart[i].Validate(ctx); err != nil {
			return nil, err
		}
	}

	var committed *Sale

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock each product once and check the summed quantity, so two
		// lines for the same product cannot pass individually while
		// jointly exceeding stock. Lines stay independent otherwise:
		// each still produces its own movement.
		locked, err := s.lockAndCheck(ctx, cart)
		if err != nil {
			return err
		}

		number, err := s.numbers.Next(ctx, numerator.DefaultConfig(NumberPrefix), time.Now())
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}

		items := make([]SaleItem, len(cart))
		for i := range cart {
			c := &cart[i]
			items[i] = SaleItem{
				ID:          id.New(),
				ProductID:   c.ProductID,
				ProductName: locked[c.ProductID].Name,
				Quantity:    c.Quantity,
				UnitPrice:   c.UnitPrice,
				UnitCost:    c.UnitCost,
				Subtotal:    c.Subtotal(),
				Profit:      c.Profit(),
			}
		}

		sl := newSale(number, notes, items)

		if err := s.sales.Create(ctx, sl); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.sales.CreateItems(ctx, sl.Items); err != nil {
			return fmt.Errorf("create sale items: %w", err)
		}

		for i := range sl.Items {
			item := &sl.Items[i]
			if _, err := s.stock.RecordSaleMovement(ctx, stock.SaleMovementInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
				Reference: sl.Number,
			}); err != nil {
				return err
			}
		}

		committed = sl
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStorage(fmt.Errorf("settle sale: %w", err))
	}

	logger.Info(ctx, "sale settled",
		"number", committed.Number,
		"lines", len(committed.Items),
		"total", committed.TotalAmount,
	)
	return committed, nil
}

// lockAndCheck locks every referenced product and validates that the
// per-product summed quantities fit the current persisted stock.
// Returns the locked products so settlement can snapshot their names.
func (s *Service) lockAndCheck(ctx context.Context, cart []CartItem) (map[id.ID]*product.Product, error) {
	required := make(map[id.ID]int64, len(cart))
	order := make([]id.ID, 0, len(cart))
	for i := range cart {
		if _, seen := required[cart[i].ProductID]; !seen {
			order = append(order, cart[i].ProductID)
		}
		required[cart[i].ProductID] += cart[i].Quantity
	}

	locked := make(map[id.ID]*product.Product, len(order))
	for _, productID := range order {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if required[productID] > p.CurrentStock {
			return nil, apperror.NewInsufficientStock(productID.String(), required[productID], p.CurrentStock)
		}
		locked[productID] = p
	}

	return locked, nil
}

// GetByID retrieves a sale with its lines.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sl, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, normalizeErr(err, "get sale")
	}
	return s.withItems(ctx, sl)
}

// GetByNumber retrieves a sale by its number, with lines.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	sl, err := s.sales.GetByNumber(ctx, number)
	if err != nil {
		return nil, normalizeErr(err, "get sale by number")
	}
	return s.withItems(ctx, sl)
}

// List retrieves sales matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Sale, error) {
	sales, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list sales: %w", err))
	}
	return sales, nil
}

// Delete removes a sale and cascades its lines. The ledger and product
// stock are left as-is: deletion is bookkeeping cleanup, not a reversal
// of the sale's stock effects.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	sl, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return normalizeErr(err, "get sale")
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.sales.Delete(ctx, saleID)
	})
	if err != nil {
		return normalizeErr(err, "delete sale")
	}

	logger.Info(ctx, "sale deleted", "id", saleID, "number", sl.Number)
	return nil
}

func (s *Service) withItems(ctx context.Context, sl *Sale) (*Sale, error) {
	items, err := s.sales.GetItems(ctx, sl.ID)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("get sale items: %w", err))
	}
	sl.Items = items
	return sl, nil
}

func normalizeErr(err error, op string) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStorage(fmt.Errorf("%s: %w", op, err))
}
