package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/internal/ledger"
	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdeskhq/orderdesk-backend/pkg/errors"
	"github.com/orderdeskhq/orderdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AllocationRefresher recomputes the advisory stock_allocated cache for the
// given products inside the running transaction.
type AllocationRefresher interface {
	RefreshAllocated(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error
}

// Service exposes the order lifecycle. Orders are mutated exclusively through
// Update; no other component writes order rows directly.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	ledger ledger.Service
	alloc  AllocationRefresher
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledgerSvc ledger.Service, alloc AllocationRefresher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if alloc == nil {
		return nil, fmt.Errorf("allocation refresher required")
	}
	return &service{repo: repo, tx: tx, ledger: ledgerSvc, alloc: alloc}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.PackageType != nil && !input.PackageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid package type")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	items := foldItems(input.Items)

	order := &models.Order{
		UserID:          input.UserID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		Position:        input.Position,
		Note:            input.Note,
		BarcodeAll:      input.BarcodeAll,
		PackageType:     enums.PackageTypeBoxes,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusUnpaid,
		ShippingCartons: input.ShippingCartons,
		ShippingCost:    input.ShippingCost,
		ShippingGSTIncl: true,
		ShippingNote:    input.ShippingNote,
	}
	if input.PackageType != nil {
		order.PackageType = *input.PackageType
	}
	if input.Status != nil {
		order.Status = *input.Status
	}
	if input.PaymentStatus != nil {
		order.PaymentStatus = *input.PaymentStatus
	}
	if input.ShippingGSTIncl != nil {
		order.ShippingGSTIncl = *input.ShippingGSTIncl
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Backorder: item.Backorder,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		// A brand-new order diffs against the implicit pending/unpaid
		// baseline, so creating an already-paid order allocates immediately.
		next := snapshotOrder(order)
		if err := s.applyStockActions(ctx, tx, order.ID, decideStockActions(baselineState(), next)); err != nil {
			return err
		}
		return s.refreshAllocations(ctx, tx, baselineState(), next)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return buildView(order), nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	page := pagination.Params{Page: params.Page, PageSize: params.PageSize}.Normalize()
	params.Page = page.Page
	params.PageSize = page.PageSize

	orders, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{
		Orders:   make([]OrderView, 0, len(orders)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    total,
	}
	for i := range orders {
		result.Orders = append(result.Orders, *buildView(&orders[i]))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.PackageType != nil && !input.PackageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid package type")
	}
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if input.ExpectedUpdatedAt != nil {
			stored := order.UpdatedAt.Truncate(time.Millisecond)
			expected := input.ExpectedUpdatedAt.Truncate(time.Millisecond)
			if !stored.Equal(expected) {
				return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently").
					WithDetails(map[string]any{"updated_at": order.UpdatedAt})
			}
		}

		prev := snapshotOrder(order)

		updates := applyScalarFields(order, input)
		updates["updated_at"] = time.Now()

		// Any supplied payment status re-stamps paid_at: now when paid, cleared
		// otherwise. Re-submitting paid refreshes the timestamp.
		if input.PaymentStatus != nil {
			if *input.PaymentStatus == enums.PaymentStatusPaid {
				now := time.Now()
				order.PaidAt = &now
				updates["paid_at"] = &now
			} else {
				order.PaidAt = nil
				updates["paid_at"] = nil
			}
		}

		if input.Items != nil {
			folded := foldItems(*input.Items)
			diff := diffItems(order.Items, folded)
			if err := repo.DeleteItemsByProduct(ctx, order.ID, diff.toDelete); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete removed items")
			}
			if err := repo.UpsertItems(ctx, order.ID, diff.toUpsert); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert items")
			}
		}

		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		items, err := repo.ReloadItems(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload items")
		}
		order.Items = items

		next := snapshotOrder(order)
		if err := s.applyStockActions(ctx, tx, order.ID, decideStockActions(prev, next)); err != nil {
			return err
		}
		return s.refreshAllocations(ctx, tx, prev, next)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := repo.DeleteOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) applyStockActions(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, actions []stockAction) error {
	repo := s.repo.WithTx(tx)
	for _, action := range actions {
		if action.OnHandDelta != 0 {
			if err := repo.AdjustProductStock(ctx, action.ProductID, action.OnHandDelta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust physical stock")
			}
		}
		id := orderID
		_, err := s.ledger.Record(ctx, tx, ledger.RecordMovementInput{
			ProductID: action.ProductID,
			OrderID:   &id,
			Type:      action.Type,
			Qty:       action.Qty,
			Reason:    action.Reason,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}
	}
	return nil
}

func (s *service) refreshAllocations(ctx context.Context, tx *gorm.DB, prev, next orderState) error {
	ids := touchedProducts(prev, next)
	if len(ids) == 0 {
		return nil
	}
	if err := s.alloc.RefreshAllocated(ctx, tx, ids); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh allocated cache")
	}
	return nil
}

func applyScalarFields(order *models.Order, input UpdateOrderInput) map[string]any {
	updates := map[string]any{}
	if input.CustomerName != nil {
		order.CustomerName = *input.CustomerName
		updates["customer_name"] = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		order.CustomerEmail = *input.CustomerEmail
		updates["customer_email"] = *input.CustomerEmail
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = *input.CustomerPhone
		updates["customer_phone"] = *input.CustomerPhone
	}
	if input.ShippingAddress != nil {
		order.ShippingAddress = *input.ShippingAddress
		updates["shipping_address"] = *input.ShippingAddress
	}
	if input.Position != nil {
		order.Position = *input.Position
		updates["position"] = *input.Position
	}
	if input.Note != nil {
		order.Note = input.Note
		updates["note"] = input.Note
	}
	if input.BarcodeAll != nil {
		order.BarcodeAll = *input.BarcodeAll
		updates["barcode_all"] = *input.BarcodeAll
	}
	if input.PackageType != nil {
		order.PackageType = *input.PackageType
		updates["package_type"] = *input.PackageType
	}
	if input.Status != nil {
		order.Status = *input.Status
		updates["status"] = *input.Status
	}
	if input.PaymentStatus != nil {
		order.PaymentStatus = *input.PaymentStatus
		updates["payment_status"] = *input.PaymentStatus
	}
	if input.ShippingCartons != nil {
		order.ShippingCartons = *input.ShippingCartons
		updates["shipping_cartons"] = *input.ShippingCartons
	}
	if input.ShippingCost != nil {
		order.ShippingCost = input.ShippingCost
		updates["shipping_cost"] = input.ShippingCost
	}
	if input.ShippingGSTIncl != nil {
		order.ShippingGSTIncl = *input.ShippingGSTIncl
		updates["shipping_gst_incl"] = *input.ShippingGSTIncl
	}
	if input.ShippingNote != nil {
		order.ShippingNote = input.ShippingNote
		updates["shipping_note"] = input.ShippingNote
	}
	return updates
}

func validateItems(items []ItemInput) error {
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity cannot be negative")
		}
		if item.Backorder < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item backorder cannot be negative")
		}
	}
	return nil
}

func buildView(order *models.Order) *OrderView {
	totals := CalculateTotals(order.Items, order.ShippingCost, order.ShippingGSTIncl)
	return &OrderView{Order: *order, Totals: totals.Rounded()}
}
