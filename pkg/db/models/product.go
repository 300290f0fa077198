package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry with its physical stock counters.
//
// StockOnHand is the physical count and is mutated only by the shipment and
// adjustment paths. StockAllocated is a denormalized cache of notionally
// reserved quantity; it may lag and is never authoritative — the real figure
// is recomputed from line-item state by the inventory aggregator.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string          `gorm:"column:sku;not null;uniqueIndex"`
	Title          string          `gorm:"column:title;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockOnHand    int             `gorm:"column:stock_on_hand;not null;default:0"`
	StockAllocated int             `gorm:"column:stock_allocated;not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
