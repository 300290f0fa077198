package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/orderdeskhq/orderdesk-backend/pkg/errors"
	"github.com/orderdeskhq/orderdesk-backend/pkg/pagination"
)

// OverviewParams filter and page the inventory overview.
type OverviewParams struct {
	Query    string
	Page     int
	PageSize int
}

// OverviewRow is the per-product availability picture: demand sliced by order
// state, combined with on-hand stock.
type OverviewRow struct {
	ProductID   uuid.UUID `json:"product_id"`
	SKU         string    `json:"sku"`
	Title       string    `json:"title"`
	StockOnHand int       `json:"stock_on_hand"`

	DemandAll    int `json:"demand_all"`
	DemandPaid   int `json:"demand_paid"`
	DemandUnpaid int `json:"demand_unpaid"`
	DemandOpen   int `json:"demand_open"`

	// Allocated counts only paid-and-open demand. Shipped or completed paid
	// orders already decremented physical stock and would double-reserve here.
	Allocated        int `json:"allocated"`
	Available        int `json:"available"`
	OpenUnpaid       int `json:"open_unpaid"`
	NeedToBuyForOpen int `json:"need_to_buy_for_open"`
	NeedToBuyForPaid int `json:"need_to_buy_for_paid"`
	NeedToBuyForAll  int `json:"need_to_buy_for_all"`
}

// OverviewResult wraps one page of overview rows.
type OverviewResult struct {
	Rows     []OverviewRow `json:"rows"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// Service is the read-only inventory aggregator. It takes no locks and is
// eventually consistent with in-flight order updates.
type Service interface {
	Overview(ctx context.Context, params OverviewParams) (*OverviewResult, error)
}

type service struct {
	repo Repository
}

// NewService wires the aggregator with its repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Overview(ctx context.Context, params OverviewParams) (*OverviewResult, error) {
	page := pagination.Params{Page: params.Page, PageSize: params.PageSize}.Normalize()

	products, total, err := s.repo.ListProducts(ctx, params.Query, page.Offset(), page.Limit())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}

	partitions := map[DemandPartition]map[uuid.UUID]int{}
	for _, partition := range []DemandPartition{
		PartitionAll, PartitionPaid, PartitionUnpaid, PartitionOpen, PartitionPaidOpen,
	} {
		totals, err := s.repo.SumDemand(ctx, ids, partition)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate demand")
		}
		partitions[partition] = totals
	}

	result := &OverviewResult{
		Rows:     make([]OverviewRow, 0, len(products)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    total,
	}
	for _, product := range products {
		allocated := partitions[PartitionPaidOpen][product.ID]
		demandOpen := partitions[PartitionOpen][product.ID]
		demandPaid := partitions[PartitionPaid][product.ID]
		demandAll := partitions[PartitionAll][product.ID]

		result.Rows = append(result.Rows, OverviewRow{
			ProductID:        product.ID,
			SKU:              product.SKU,
			Title:            product.Title,
			StockOnHand:      product.StockOnHand,
			DemandAll:        demandAll,
			DemandPaid:       demandPaid,
			DemandUnpaid:     partitions[PartitionUnpaid][product.ID],
			DemandOpen:       demandOpen,
			Allocated:        allocated,
			Available:        floorZero(product.StockOnHand - allocated),
			OpenUnpaid:       floorZero(demandOpen - allocated),
			NeedToBuyForOpen: floorZero(demandOpen - product.StockOnHand),
			NeedToBuyForPaid: floorZero(demandPaid - product.StockOnHand),
			NeedToBuyForAll:  floorZero(demandAll - product.StockOnHand),
		})
	}
	return result, nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
