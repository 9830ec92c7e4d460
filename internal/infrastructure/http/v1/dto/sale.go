package dto

import (
	"github.com/shopspring/decimal"

	"stocktally/internal/domain/sale"
)

// SettleSaleRequest is the request body for settling a cart.
type SettleSaleRequest struct {
	Items []SaleLineRequest `json:"items" binding:"required"`
	Notes string            `json:"notes"`
}

// SaleLineRequest is one candidate line of a pending sale.
type SaleLineRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

// ToCart converts the request into cart items. Line-level business
// validation happens in the settlement engine.
func (r *SettleSaleRequest) ToCart() ([]sale.CartItem, error) {
	cart := make([]sale.CartItem, len(r.Items))
	for i := range r.Items {
		line := &r.Items[i]
		productID, err := parseID(line.ProductID, "items.productId")
		if err != nil {
			return nil, err
		}
		cart[i] = sale.CartItem{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			UnitCost:  line.UnitCost,
		}
	}
	return cart, nil
}
