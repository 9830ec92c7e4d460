package dto

import (
	"github.com/shopspring/decimal"

	"stocktally/internal/domain/catalog/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU               string           `json:"sku" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	CategoryID        *string          `json:"categoryId"`
	SupplierID        *string          `json:"supplierId"`
	BuyPrice          *decimal.Decimal `json:"buyPrice"`
	SellPrice         *decimal.Decimal `json:"sellPrice"`
	LowStockThreshold int64            `json:"lowStockThreshold"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.New(r.SKU, r.Name)

	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return nil, err
	}
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}

	p.CategoryID = categoryID
	p.SupplierID = supplierID
	if r.BuyPrice != nil {
		p.BuyPrice = *r.BuyPrice
	}
	if r.SellPrice != nil {
		p.SellPrice = *r.SellPrice
	}
	p.LowStockThreshold = r.LowStockThreshold
	return p, nil
}

// UpdateProductRequest is the request body for updating a product.
// CurrentStock is absent on purpose: stock moves only through the
// stock endpoints.
type UpdateProductRequest struct {
	SKU               string           `json:"sku" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	CategoryID        *string          `json:"categoryId"`
	SupplierID        *string          `json:"supplierId"`
	BuyPrice          *decimal.Decimal `json:"buyPrice"`
	SellPrice         *decimal.Decimal `json:"sellPrice"`
	LowStockThreshold int64            `json:"lowStockThreshold"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return err
	}
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return err
	}

	p.SKU = r.SKU
	p.Name = r.Name
	p.CategoryID = categoryID
	p.SupplierID = supplierID
	if r.BuyPrice != nil {
		p.BuyPrice = *r.BuyPrice
	}
	if r.SellPrice != nil {
		p.SellPrice = *r.SellPrice
	}
	p.LowStockThreshold = r.LowStockThreshold
	return nil
}
