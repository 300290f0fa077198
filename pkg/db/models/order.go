package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// Order is the persisted order header plus its owned line items.
//
// Customer fields are a snapshot captured at order time, independent of any
// user record. UpdatedAt doubles as the optimistic-concurrency version token:
// callers may send the timestamp they last read and updates fail on mismatch.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerEmail   string              `gorm:"column:customer_email;not null"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	Position        string              `gorm:"column:position"`
	Note            *string             `gorm:"column:note"`
	BarcodeAll      bool                `gorm:"column:barcode_all;not null;default:false"`
	PackageType     enums.PackageType   `gorm:"column:package_type;type:text;not null;default:'boxes'"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	ShippingCartons int                 `gorm:"column:shipping_cartons;not null;default:0"`
	ShippingCost    *decimal.Decimal    `gorm:"column:shipping_cost;type:numeric(12,2)"`
	ShippingGSTIncl bool                `gorm:"column:shipping_gst_incl;not null;default:true"`
	ShippingNote    *string             `gorm:"column:shipping_note"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
