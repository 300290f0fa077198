package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// ItemInput is one requested order line. Multiple lines for the same product
// are merged (quantities and backorders summed) before persistence.
type ItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Backorder int       `json:"backorder"`
}

// CreateOrderInput carries everything needed to place a new order.
type CreateOrderInput struct {
	UserID          *uuid.UUID           `json:"user_id,omitempty"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	ShippingAddress string               `json:"shipping_address"`
	Position        string               `json:"position"`
	Note            *string              `json:"note,omitempty"`
	BarcodeAll      bool                 `json:"barcode_all"`
	PackageType     *enums.PackageType   `json:"package_type,omitempty"`
	Status          *enums.OrderStatus   `json:"status,omitempty"`
	PaymentStatus   *enums.PaymentStatus `json:"payment_status,omitempty"`
	ShippingCartons int                  `json:"shipping_cartons"`
	ShippingCost    *decimal.Decimal     `json:"shipping_cost,omitempty"`
	ShippingGSTIncl *bool                `json:"shipping_gst_incl,omitempty"`
	ShippingNote    *string              `json:"shipping_note,omitempty"`
	Items           []ItemInput          `json:"items"`
}

// UpdateOrderInput is a partial order document. Nil fields are untouched; a
// non-nil Items slice replaces the stored line items wholesale.
type UpdateOrderInput struct {
	CustomerName    *string              `json:"customer_name,omitempty"`
	CustomerEmail   *string              `json:"customer_email,omitempty"`
	CustomerPhone   *string              `json:"customer_phone,omitempty"`
	ShippingAddress *string              `json:"shipping_address,omitempty"`
	Position        *string              `json:"position,omitempty"`
	Note            *string              `json:"note,omitempty"`
	BarcodeAll      *bool                `json:"barcode_all,omitempty"`
	PackageType     *enums.PackageType   `json:"package_type,omitempty"`
	Status          *enums.OrderStatus   `json:"status,omitempty"`
	PaymentStatus   *enums.PaymentStatus `json:"payment_status,omitempty"`
	ShippingCartons *int                 `json:"shipping_cartons,omitempty"`
	ShippingCost    *decimal.Decimal     `json:"shipping_cost,omitempty"`
	ShippingGSTIncl *bool                `json:"shipping_gst_incl,omitempty"`
	ShippingNote    *string              `json:"shipping_note,omitempty"`
	Items           *[]ItemInput         `json:"items,omitempty"`

	// ExpectedUpdatedAt is the optimistic concurrency token captured on read.
	// When set, the update fails with a version conflict if the stored
	// updated_at no longer matches (millisecond precision).
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// IsEmpty reports whether the input touches no recognized field. The
// concurrency token alone does not count as a change.
func (in UpdateOrderInput) IsEmpty() bool {
	return in.CustomerName == nil &&
		in.CustomerEmail == nil &&
		in.CustomerPhone == nil &&
		in.ShippingAddress == nil &&
		in.Position == nil &&
		in.Note == nil &&
		in.BarcodeAll == nil &&
		in.PackageType == nil &&
		in.Status == nil &&
		in.PaymentStatus == nil &&
		in.ShippingCartons == nil &&
		in.ShippingCost == nil &&
		in.ShippingGSTIncl == nil &&
		in.ShippingNote == nil &&
		in.Items == nil
}

// OrderView is the full order representation returned to callers, including
// derived money totals.
type OrderView struct {
	models.Order
	Totals Totals `json:"totals"`
}

// ListParams filter and page the order list.
type ListParams struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Query         string
	Page          int
	PageSize      int
}

// ListResult wraps one page of orders plus the total row count.
type ListResult struct {
	Orders   []OrderView `json:"orders"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
}
