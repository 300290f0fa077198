package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one product line on an order. At most one row exists per
// (order, product) pair; duplicate input lines are merged before persistence.
// Backorder is the portion of Quantity not currently satisfiable from stock.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Backorder int       `gorm:"column:backorder;not null;default:0"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
