package products

import (
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
)

// CreateProductInput carries the fields needed to add a catalog product.
type CreateProductInput struct {
	SKU         string          `json:"sku"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	StockOnHand int             `json:"stock_on_hand"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// ToModel converts the input into a persistable product.
func (in CreateProductInput) ToModel() *models.Product {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &models.Product{
		SKU:         in.SKU,
		Title:       in.Title,
		Price:       in.Price,
		StockOnHand: in.StockOnHand,
		IsActive:    active,
	}
}

// UpdateProductInput is a partial product document; nil fields are untouched.
// Stock counters are deliberately absent: physical stock moves only through
// AdjustStock or shipment so every change lands in the ledger.
type UpdateProductInput struct {
	SKU      *string          `json:"sku,omitempty"`
	Title    *string          `json:"title,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// IsEmpty reports whether the input touches no recognized field.
func (in UpdateProductInput) IsEmpty() bool {
	return in.SKU == nil && in.Title == nil && in.Price == nil && in.IsActive == nil
}

// ListParams filter and page the product list.
type ListParams struct {
	Query    string
	Page     int
	PageSize int
}

// ListResult wraps one page of products plus the total row count.
type ListResult struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}
