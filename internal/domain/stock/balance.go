// Package stock provides the stock mutation service and the balance
// calculator that plans every change to a product's cached balance.
package stock

import (
	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

// Plan is the outcome of the balance calculator: the previous stock to
// record on the movement, the resulting stock, and the delta applied.
type Plan struct {
	Previous int64
	New      int64
	Delta    int64
}

// The calculator trusts the product's cached balance as authoritative;
// the ledger exists for audit, not recomputation. Keeping these
// functions pure and isolated means they could later be swapped for
// ledger replay without touching the mutation service.

// PlanReceipt plans adding qty units on top of the current balance.
func PlanReceipt(productID id.ID, current, qty int64) (Plan, error) {
	if qty <= 0 {
		return Plan{}, apperror.NewInvalidQuantity("receipt quantity must be positive").
			WithDetail("product_id", productID.String()).
			WithDetail("quantity", qty)
	}
	return Plan{Previous: current, New: current + qty, Delta: qty}, nil
}

// PlanRemoval plans removing qty units. Stock may not go negative.
func PlanRemoval(productID id.ID, current, qty int64) (Plan, error) {
	if qty <= 0 {
		return Plan{}, apperror.NewInvalidQuantity("removal quantity must be positive").
			WithDetail("product_id", productID.String()).
			WithDetail("quantity", qty)
	}
	if qty > current {
		return Plan{}, apperror.NewInsufficientStock(productID.String(), qty, current)
	}
	return Plan{Previous: current, New: current - qty, Delta: -qty}, nil
}

// PlanAdjustment plans setting the balance to an absolute level.
// The delta may be negative; the resulting level may not.
func PlanAdjustment(productID id.ID, current, newLevel int64) (Plan, error) {
	if newLevel < 0 {
		return Plan{}, apperror.NewInvalidQuantity("stock level cannot be negative").
			WithDetail("product_id", productID.String()).
			WithDetail("new_level", newLevel)
	}
	return Plan{Previous: current, New: newLevel, Delta: newLevel - current}, nil
}
