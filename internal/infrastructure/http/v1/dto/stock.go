package dto

import (
	"github.com/shopspring/decimal"

	"stocktally/internal/domain/stock"
)

// AddStockRequest is the request body for a goods receipt.
type AddStockRequest struct {
	ProductID string           `json:"productId" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unitCost"`
	Reference string           `json:"reference"`
	Notes     string           `json:"notes"`
}

// ToInput converts DTO to the service input.
func (r *AddStockRequest) ToInput() (stock.AddStockInput, error) {
	productID, err := parseID(r.ProductID, "productId")
	if err != nil {
		return stock.AddStockInput{}, err
	}
	return stock.AddStockInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		UnitCost:  r.UnitCost,
		Reference: r.Reference,
		Notes:     r.Notes,
	}, nil
}

// RemoveStockRequest is the request body for a manual stock removal.
type RemoveStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// ToInput converts DTO to the service input.
func (r *RemoveStockRequest) ToInput() (stock.RemoveStockInput, error) {
	productID, err := parseID(r.ProductID, "productId")
	if err != nil {
		return stock.RemoveStockInput{}, err
	}
	return stock.RemoveStockInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		Reference: r.Reference,
		Notes:     r.Notes,
	}, nil
}

// AdjustStockRequest is the request body for a stock level correction.
// NewLevel is the absolute target, not a delta.
type AdjustStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	NewLevel  *int64 `json:"newLevel" binding:"required"`
	Notes     string `json:"notes"`
}

// ToInput converts DTO to the service input.
func (r *AdjustStockRequest) ToInput() (stock.AdjustStockInput, error) {
	productID, err := parseID(r.ProductID, "productId")
	if err != nil {
		return stock.AdjustStockInput{}, err
	}
	return stock.AdjustStockInput{
		ProductID: productID,
		NewLevel:  *r.NewLevel,
		Notes:     r.Notes,
	}, nil
}
