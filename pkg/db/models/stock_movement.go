package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// StockMovement is an immutable audit record of an inventory movement.
// Qty is signed: negative means stock leaving or being locked, positive means
// stock freed or added. Rows are never mutated or deleted once created.
type StockMovement struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	OrderID   *uuid.UUID              `gorm:"column:order_id;type:uuid;index"`
	Type      enums.StockMovementType `gorm:"column:type;type:text;not null"`
	Qty       int                     `gorm:"column:qty;not null"`
	Reason    string                  `gorm:"column:reason;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}
