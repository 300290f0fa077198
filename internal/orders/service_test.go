package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/internal/ledger"
	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdeskhq/orderdesk-backend/pkg/errors"
)

type stubOrdersRepo struct {
	order        *models.Order
	orderUpdates map[string]any
	stockDeltas  map[uuid.UUID]int
	deleted      bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.UpdatedAt = time.Now()
	s.order = order
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	copied.Items = append([]models.OrderItem(nil), s.order.Items...)
	return &copied, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, params ListParams) ([]models.Order, int64, error) {
	if s.order == nil {
		return nil, 0, nil
	}
	return []models.Order{*s.order}, 1, nil
}

func (s *stubOrdersRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	if status, ok := updates["status"]; ok {
		s.order.Status = status.(enums.OrderStatus)
	}
	if payment, ok := updates["payment_status"]; ok {
		s.order.PaymentStatus = payment.(enums.PaymentStatus)
	}
	if paidAt, ok := updates["paid_at"]; ok {
		if paidAt == nil {
			s.order.PaidAt = nil
		} else {
			s.order.PaidAt = paidAt.(*time.Time)
		}
	}
	if at, ok := updates["updated_at"]; ok {
		s.order.UpdatedAt = at.(time.Time)
	}
	return nil
}

func (s *stubOrdersRepo) ReloadItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), s.order.Items...), nil
}

func (s *stubOrdersRepo) UpsertItems(ctx context.Context, orderID uuid.UUID, items []ItemInput) error {
	for _, incoming := range items {
		found := false
		for i := range s.order.Items {
			if s.order.Items[i].ProductID == incoming.ProductID {
				s.order.Items[i].Quantity = incoming.Quantity
				s.order.Items[i].Backorder = incoming.Backorder
				found = true
				break
			}
		}
		if !found {
			s.order.Items = append(s.order.Items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: incoming.ProductID,
				Quantity:  incoming.Quantity,
				Backorder: incoming.Backorder,
			})
		}
	}
	return nil
}

func (s *stubOrdersRepo) DeleteItemsByProduct(ctx context.Context, orderID uuid.UUID, productIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	kept := s.order.Items[:0]
	for _, item := range s.order.Items {
		if _, ok := drop[item.ProductID]; !ok {
			kept = append(kept, item)
		}
	}
	s.order.Items = kept
	return nil
}

func (s *stubOrdersRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	s.order = nil
	return nil
}

func (s *stubOrdersRepo) AdjustProductStock(ctx context.Context, productID uuid.UUID, delta int) error {
	if s.stockDeltas == nil {
		s.stockDeltas = make(map[uuid.UUID]int)
	}
	s.stockDeltas[productID] += delta
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubLedger struct {
	movements []ledger.RecordMovementInput
}

func (s *stubLedger) Record(ctx context.Context, tx *gorm.DB, input ledger.RecordMovementInput) (*models.StockMovement, error) {
	s.movements = append(s.movements, input)
	return &models.StockMovement{
		ID:        uuid.New(),
		ProductID: input.ProductID,
		OrderID:   input.OrderID,
		Type:      input.Type,
		Qty:       input.Qty,
		Reason:    input.Reason,
	}, nil
}

func (s *stubLedger) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockMovement, error) {
	return nil, nil
}

func (s *stubLedger) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	return nil, nil
}

type stubAllocRefresher struct {
	refreshed [][]uuid.UUID
}

func (s *stubAllocRefresher) RefreshAllocated(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error {
	s.refreshed = append(s.refreshed, productIDs)
	return nil
}

func newTestService(t *testing.T, repo *stubOrdersRepo) (Service, *stubLedger, *stubAllocRefresher) {
	t.Helper()
	movements := &stubLedger{}
	alloc := &stubAllocRefresher{}
	svc, err := NewService(repo, stubTxRunner{}, movements, alloc)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc, movements, alloc
}

func storedOrder(status enums.OrderStatus, payment enums.PaymentStatus, items ...models.OrderItem) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		CustomerName:  "Corner Store",
		Status:        status,
		PaymentStatus: payment,
		Items:         items,
		UpdatedAt:     time.Now().Add(-time.Hour),
	}
	if payment == enums.PaymentStatusPaid {
		paidAt := time.Now().Add(-time.Hour)
		order.PaidAt = &paidAt
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order
}

func strPtr(s string) *string { return &s }

func TestCreatePaidOrderAllocates(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{}
	svc, movements, alloc := newTestService(t, repo)

	paid := enums.PaymentStatusPaid
	view, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:  "Corner Store",
		PaymentStatus: &paid,
		Items:         []ItemInput{{ProductID: productID, Quantity: 10, Backorder: 4}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.PaidAt == nil {
		t.Fatal("expected paid_at to be set")
	}
	if len(movements.movements) != 1 {
		t.Fatalf("expected 1 movement got %d", len(movements.movements))
	}
	m := movements.movements[0]
	if m.Type != enums.StockMovementAllocate || m.Qty != 10 {
		t.Fatalf("unexpected movement %+v", m)
	}
	if m.OrderID == nil || *m.OrderID != view.ID {
		t.Fatal("movement not linked to order")
	}
	if len(alloc.refreshed) != 1 {
		t.Fatalf("expected allocation refresh got %d", len(alloc.refreshed))
	}
}

func TestCreateUnpaidOrderRecordsNothing(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, movements, _ := newTestService(t, repo)

	view, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName: "Corner Store",
		Items:        []ItemInput{{ProductID: uuid.New(), Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.PaidAt != nil {
		t.Fatal("unexpected paid_at on unpaid order")
	}
	if len(movements.movements) != 0 {
		t.Fatalf("unexpected movements %+v", movements.movements)
	}
}

func TestCreateMergesDuplicateItems(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{}
	svc, _, _ := newTestService(t, repo)

	view, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName: "Corner Store",
		Items: []ItemInput{
			{ProductID: productID, Quantity: 3, Backorder: 1},
			{ProductID: productID, Quantity: 4, Backorder: 1},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected merged line got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 7 || view.Items[0].Backorder != 2 {
		t.Fatalf("unexpected merged line %+v", view.Items[0])
	}
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName: "Corner Store",
		Items:        []ItemInput{{ProductID: uuid.New(), Quantity: -1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestUpdateEmptyInputRejected(t *testing.T) {
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusUnpaid)}
	svc, _, _ := newTestService(t, repo)

	now := time.Now()
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{ExpectedUpdatedAt: &now})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestUpdateVersionConflict(t *testing.T) {
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusUnpaid)}
	svc, movements, _ := newTestService(t, repo)

	stale := repo.order.UpdatedAt.Add(-time.Minute)
	status := enums.OrderStatusConfirmed
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		Status:            &status,
		ExpectedUpdatedAt: &stale,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected version conflict got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected current version in details")
	}
	if len(movements.movements) != 0 {
		t.Fatalf("unexpected movements after conflict %+v", movements.movements)
	}
}

func TestUpdateMatchingVersionPasses(t *testing.T) {
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusUnpaid)}
	svc, _, _ := newTestService(t, repo)

	// Tokens round-trip through JSON at millisecond precision.
	token := repo.order.UpdatedAt.Truncate(time.Millisecond)
	status := enums.OrderStatusConfirmed
	view, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		Status:            &status,
		ExpectedUpdatedAt: &token,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed got %s", view.Status)
	}
}

func TestUpdateMarkPaidAllocates(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		models.OrderItem{ID: uuid.New(), ProductID: productID, Quantity: 10, Backorder: 4})}
	svc, movements, alloc := newTestService(t, repo)

	paid := enums.PaymentStatusPaid
	view, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.PaidAt == nil {
		t.Fatal("expected paid_at to be set")
	}
	if len(movements.movements) != 1 {
		t.Fatalf("expected 1 movement got %d", len(movements.movements))
	}
	m := movements.movements[0]
	if m.Type != enums.StockMovementAllocate || m.Qty != 10 {
		t.Fatalf("unexpected movement %+v", m)
	}
	if len(repo.stockDeltas) != 0 {
		t.Fatalf("allocation must not move physical stock: %+v", repo.stockDeltas)
	}
	if len(alloc.refreshed) != 1 || alloc.refreshed[0][0] != productID {
		t.Fatalf("expected allocation refresh for product got %+v", alloc.refreshed)
	}
}

func TestUpdateReversePaymentDeallocates(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusPaid,
		models.OrderItem{ID: uuid.New(), ProductID: productID, Quantity: 7})}
	svc, movements, _ := newTestService(t, repo)

	refunded := enums.PaymentStatusRefunded
	view, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{PaymentStatus: &refunded})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.PaidAt != nil {
		t.Fatal("expected paid_at cleared")
	}
	if len(movements.movements) != 1 {
		t.Fatalf("expected 1 movement got %d", len(movements.movements))
	}
	m := movements.movements[0]
	if m.Type != enums.StockMovementDeallocate || m.Qty != -7 {
		t.Fatalf("unexpected movement %+v", m)
	}
}

func TestUpdateShipDecrementsPhysicalStock(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPacked, enums.PaymentStatusPaid,
		models.OrderItem{ID: uuid.New(), ProductID: productID, Quantity: 8, Backorder: 2})}
	svc, movements, _ := newTestService(t, repo)

	shipped := enums.OrderStatusShipped
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{Status: &shipped})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.stockDeltas[productID] != -6 {
		t.Fatalf("expected on-hand delta -6 got %d", repo.stockDeltas[productID])
	}
	if len(movements.movements) != 1 {
		t.Fatalf("expected 1 movement got %d", len(movements.movements))
	}
	m := movements.movements[0]
	if m.Type != enums.StockMovementShip || m.Qty != -6 {
		t.Fatalf("unexpected movement %+v", m)
	}
}

func TestUpdateResubmitSameStatusIsLedgerNoop(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusShipped, enums.PaymentStatusPaid,
		models.OrderItem{ID: uuid.New(), ProductID: productID, Quantity: 5})}
	svc, movements, _ := newTestService(t, repo)

	shipped := enums.OrderStatusShipped
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{Status: &shipped})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(movements.movements) != 0 {
		t.Fatalf("re-submission must not double-book: %+v", movements.movements)
	}
	if len(repo.stockDeltas) != 0 {
		t.Fatalf("re-submission must not move stock: %+v", repo.stockDeltas)
	}
}

func TestUpdateResubmitPaidRestampsPaidAt(t *testing.T) {
	productID := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusPaid,
		models.OrderItem{ID: uuid.New(), ProductID: productID, Quantity: 5})}
	svc, movements, _ := newTestService(t, repo)

	start := time.Now()
	paid := enums.PaymentStatusPaid
	view, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	// Supplying paid again refreshes the timestamp without re-allocating.
	if view.PaidAt == nil || view.PaidAt.Before(start) {
		t.Fatalf("expected paid_at re-stamped, got %v", view.PaidAt)
	}
	if len(movements.movements) != 0 {
		t.Fatalf("unchanged payment state must not touch the ledger: %+v", movements.movements)
	}
}

func TestUpdateReplacesItems(t *testing.T) {
	kept := uuid.New()
	removed := uuid.New()
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		models.OrderItem{ID: uuid.New(), ProductID: kept, Quantity: 1},
		models.OrderItem{ID: uuid.New(), ProductID: removed, Quantity: 2})}
	svc, movements, alloc := newTestService(t, repo)

	items := []ItemInput{{ProductID: kept, Quantity: 5}}
	view, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{Items: &items})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != kept || view.Items[0].Quantity != 5 {
		t.Fatalf("unexpected items %+v", view.Items)
	}
	if len(movements.movements) != 0 {
		t.Fatalf("item edits on unpaid order must not touch the ledger: %+v", movements.movements)
	}
	// Both the surviving and the removed product need their cache recomputed.
	if len(alloc.refreshed) != 1 || len(alloc.refreshed[0]) != 2 {
		t.Fatalf("expected refresh for both products got %+v", alloc.refreshed)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateOrderInput{CustomerName: strPtr("New Name")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestDeleteOrderEmitsNoMovements(t *testing.T) {
	repo := &stubOrdersRepo{order: storedOrder(enums.OrderStatusPending, enums.PaymentStatusPaid,
		models.OrderItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 5})}
	svc, movements, _ := newTestService(t, repo)

	if err := svc.Delete(context.Background(), repo.order.ID); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected order deleted")
	}
	if len(movements.movements) != 0 {
		t.Fatalf("delete must not write the ledger: %+v", movements.movements)
	}
}
