package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

func stateWith(status enums.OrderStatus, payment enums.PaymentStatus, items ...itemState) orderState {
	return orderState{Status: status, PaymentStatus: payment, Items: items}
}

func TestDecideStockActionsBecomesPaid(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 10, Backorder: 4})
	next := stateWith(enums.OrderStatusPending, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 10, Backorder: 4})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 1)

	assert.Equal(t, enums.StockMovementAllocate, actions[0].Type)
	assert.Equal(t, productID, actions[0].ProductID)
	// Allocation covers the full ordered quantity, backorder included.
	assert.Equal(t, 10, actions[0].Qty)
	assert.Equal(t, 0, actions[0].OnHandDelta)
	assert.Equal(t, "order paid", actions[0].Reason)
}

func TestDecideStockActionsLeavesPaid(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusPending, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 7})
	next := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 7})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 1)

	assert.Equal(t, enums.StockMovementDeallocate, actions[0].Type)
	assert.Equal(t, -7, actions[0].Qty)
	assert.Equal(t, "payment reversed", actions[0].Reason)
}

func TestDecideStockActionsCancelWhilePaid(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusConfirmed, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 5})
	next := stateWith(enums.OrderStatusCancelled, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 5})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 1)

	assert.Equal(t, enums.StockMovementDeallocate, actions[0].Type)
	assert.Equal(t, -5, actions[0].Qty)
	assert.Equal(t, "order cancelled", actions[0].Reason)
}

func TestDecideStockActionsCancelWhileUnpaidIsNoop(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 5})
	next := stateWith(enums.OrderStatusCancelled, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 5})

	assert.Empty(t, decideStockActions(prev, next))
}

func TestDecideStockActionsCancelAndUnpayTogether(t *testing.T) {
	// Cancelling and reversing payment in one call still deallocates once.
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusConfirmed, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 5})
	next := stateWith(enums.OrderStatusCancelled, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 5})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 1)
	assert.Equal(t, enums.StockMovementDeallocate, actions[0].Type)
	assert.Equal(t, "payment reversed", actions[0].Reason)
}

func TestDecideStockActionsShipped(t *testing.T) {
	backordered := uuid.New()
	fullyStocked := uuid.New()
	allBackorder := uuid.New()

	prev := stateWith(enums.OrderStatusPacked, enums.PaymentStatusPaid,
		itemState{ProductID: backordered, Quantity: 10, Backorder: 4},
		itemState{ProductID: fullyStocked, Quantity: 3},
		itemState{ProductID: allBackorder, Quantity: 2, Backorder: 2})
	next := stateWith(enums.OrderStatusShipped, enums.PaymentStatusPaid, prev.Items...)

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 2)

	// Only the shippable portion moves; the fully-backordered line is skipped.
	assert.Equal(t, enums.StockMovementShip, actions[0].Type)
	assert.Equal(t, backordered, actions[0].ProductID)
	assert.Equal(t, -6, actions[0].Qty)
	assert.Equal(t, -6, actions[0].OnHandDelta)

	assert.Equal(t, fullyStocked, actions[1].ProductID)
	assert.Equal(t, -3, actions[1].Qty)
	assert.Equal(t, -3, actions[1].OnHandDelta)
}

func TestDecideStockActionsPaidAndShippedInOneCall(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusPacked, enums.PaymentStatusUnpaid,
		itemState{ProductID: productID, Quantity: 8, Backorder: 2})
	next := stateWith(enums.OrderStatusShipped, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 8, Backorder: 2})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 2)

	assert.Equal(t, enums.StockMovementAllocate, actions[0].Type)
	assert.Equal(t, 8, actions[0].Qty)
	assert.Equal(t, enums.StockMovementShip, actions[1].Type)
	assert.Equal(t, -6, actions[1].Qty)
}

func TestDecideStockActionsCompletedIsNoop(t *testing.T) {
	productID := uuid.New()
	prev := stateWith(enums.OrderStatusShipped, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 5})
	next := stateWith(enums.OrderStatusCompleted, enums.PaymentStatusPaid, prev.Items...)

	assert.Empty(t, decideStockActions(prev, next))
}

func TestDecideStockActionsUnchangedStateIsNoop(t *testing.T) {
	productID := uuid.New()
	state := stateWith(enums.OrderStatusShipped, enums.PaymentStatusPaid,
		itemState{ProductID: productID, Quantity: 5})

	// Re-submitting the stored state must not double-book the ledger.
	assert.Empty(t, decideStockActions(state, state))
}

func TestDecideStockActionsDeallocateUsesCurrentQuantities(t *testing.T) {
	rewritten := uuid.New()
	dropped := uuid.New()
	prev := stateWith(enums.OrderStatusPending, enums.PaymentStatusPaid,
		itemState{ProductID: rewritten, Quantity: 9},
		itemState{ProductID: dropped, Quantity: 5})
	// The same request rewrites one line to a smaller quantity and removes the
	// other; the reversal covers the items as they now stand.
	next := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: rewritten, Quantity: 2})

	actions := decideStockActions(prev, next)
	require.Len(t, actions, 1)
	assert.Equal(t, enums.StockMovementDeallocate, actions[0].Type)
	assert.Equal(t, rewritten, actions[0].ProductID)
	assert.Equal(t, -2, actions[0].Qty)
}

func TestTouchedProducts(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	prev := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: a, Quantity: 1},
		itemState{ProductID: b, Quantity: 1})
	next := stateWith(enums.OrderStatusPending, enums.PaymentStatusUnpaid,
		itemState{ProductID: b, Quantity: 2},
		itemState{ProductID: c, Quantity: 1})

	assert.ElementsMatch(t, []uuid.UUID{a, b, c}, touchedProducts(prev, next))
	assert.Empty(t, touchedProducts(baselineState(), baselineState()))
}
