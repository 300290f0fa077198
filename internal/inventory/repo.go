package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// DemandPartition selects which slice of order demand a grouped sum covers.
type DemandPartition int

const (
	// PartitionAll sums demand across every order regardless of state.
	PartitionAll DemandPartition = iota
	// PartitionPaid restricts to paid orders.
	PartitionPaid
	// PartitionUnpaid restricts to unpaid orders.
	PartitionUnpaid
	// PartitionOpen restricts to in-flight orders (pending, confirmed, packed).
	PartitionOpen
	// PartitionPaidOpen restricts to orders that are both paid and open. This
	// is the allocation partition: paid orders that already shipped have
	// consumed physical stock and must not be counted again.
	PartitionPaidOpen
)

// Repository exposes the read-side aggregation queries plus the advisory
// allocation cache refresh.
type Repository interface {
	ListProducts(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error)
	SumDemand(ctx context.Context, productIDs []uuid.UUID, partition DemandPartition) (map[uuid.UUID]int, error)
	RefreshAllocated(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if query != "" {
		q = q.Where("title ILIKE ?", "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := q.Order("title ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

type demandRow struct {
	ProductID uuid.UUID `gorm:"column:product_id"`
	Total     int       `gorm:"column:total"`
}

// SumDemand runs one grouped SUM(quantity) over order_items joined to orders,
// filtered by the partition predicate.
func (r *repository) SumDemand(ctx context.Context, productIDs []uuid.UUID, partition DemandPartition) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return totals, nil
	}

	q := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, COALESCE(SUM(order_items.quantity), 0) AS total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id IN ?", productIDs).
		Group("order_items.product_id")

	switch partition {
	case PartitionAll:
	case PartitionPaid:
		q = q.Where("orders.payment_status = ?", enums.PaymentStatusPaid)
	case PartitionUnpaid:
		q = q.Where("orders.payment_status = ?", enums.PaymentStatusUnpaid)
	case PartitionOpen:
		q = q.Where("orders.status IN ?", enums.OpenOrderStatuses)
	case PartitionPaidOpen:
		q = q.Where("orders.payment_status = ?", enums.PaymentStatusPaid).
			Where("orders.status IN ?", enums.OpenOrderStatuses)
	}

	var rows []demandRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ProductID] = row.Total
	}
	return totals, nil
}

// RefreshAllocated recomputes products.stock_allocated from the paid-and-open
// aggregation. The cache is advisory; readers needing the authoritative figure
// aggregate live via SumDemand.
func (r *repository) RefreshAllocated(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_allocated = COALESCE((
			SELECT SUM(oi.quantity)
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE oi.product_id = products.id
			  AND o.payment_status = ?
			  AND o.status IN ?
		), 0)
		WHERE products.id IN ?
	`, enums.PaymentStatusPaid, enums.OpenOrderStatuses, productIDs).Error
}
