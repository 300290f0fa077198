package orders

import (
	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// orderState is an immutable snapshot of the fields the stock decision cares
// about. One is captured before any change is applied and one after, and the
// pair is diffed; the ledger rules never look at the request itself.
type orderState struct {
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
	Items         []itemState
}

type itemState struct {
	ProductID uuid.UUID
	Quantity  int
	Backorder int
}

// stockAction is one ledger movement to emit, plus the physical stock delta to
// apply alongside it (zero for the audit-only movement types).
type stockAction struct {
	ProductID   uuid.UUID
	Type        enums.StockMovementType
	Qty         int
	OnHandDelta int
	Reason      string
}

func snapshotOrder(order *models.Order) orderState {
	state := orderState{
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Items:         make([]itemState, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		state.Items = append(state.Items, itemState{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Backorder: item.Backorder,
		})
	}
	return state
}

// baselineState is the implicit previous state of a brand-new order, so order
// creation can reuse the same decision rules as updates.
func baselineState() orderState {
	return orderState{
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
	}
}

// decideStockActions diffs two order snapshots and returns the ledger
// movements the transition requires. The rules are evaluated independently
// and are not mutually exclusive within one call:
//
//   - into paid: one ALLOCATE per product, positive qty equal to the full
//     summed line quantity (backorder does not reduce it).
//   - out of paid, or into cancelled while previously paid: one DEALLOCATE
//     per product over the now-current quantities. A line rewritten in the
//     same call releases its new quantity, and a line dropped from the order
//     releases nothing; the allocation cache refresh squares the aggregate.
//   - into shipped: shippable = max(0, quantity - backorder); when positive,
//     decrement physical stock by shippable and emit SHIP. The arithmetic is
//     not clamped, so stock on hand may go negative.
//   - into completed: nothing, stock already moved at shipment.
//
// Re-submitting an unchanged status yields no actions since the diff is
// against the previous stored state.
func decideStockActions(prev, next orderState) []stockAction {
	var actions []stockAction

	becamePaid := prev.PaymentStatus != enums.PaymentStatusPaid && next.PaymentStatus == enums.PaymentStatusPaid
	wasPaid := prev.PaymentStatus == enums.PaymentStatusPaid
	leftPaid := wasPaid && next.PaymentStatus != enums.PaymentStatusPaid
	becameCancelled := prev.Status != enums.OrderStatusCancelled && next.Status == enums.OrderStatusCancelled
	becameShipped := prev.Status != enums.OrderStatusShipped && next.Status == enums.OrderStatusShipped

	if becamePaid {
		for _, item := range next.Items {
			if item.Quantity <= 0 {
				continue
			}
			actions = append(actions, stockAction{
				ProductID: item.ProductID,
				Type:      enums.StockMovementAllocate,
				Qty:       item.Quantity,
				Reason:    "order paid",
			})
		}
	}

	if leftPaid || (becameCancelled && wasPaid) {
		reason := "payment reversed"
		if !leftPaid {
			reason = "order cancelled"
		}
		for _, item := range next.Items {
			if item.Quantity <= 0 {
				continue
			}
			actions = append(actions, stockAction{
				ProductID: item.ProductID,
				Type:      enums.StockMovementDeallocate,
				Qty:       -item.Quantity,
				Reason:    reason,
			})
		}
	}

	if becameShipped {
		for _, item := range next.Items {
			shippable := item.Quantity - item.Backorder
			if shippable <= 0 {
				continue
			}
			actions = append(actions, stockAction{
				ProductID:   item.ProductID,
				Type:        enums.StockMovementShip,
				Qty:         -shippable,
				OnHandDelta: -shippable,
				Reason:      "order shipped",
			})
		}
	}

	return actions
}

// touchedProducts returns the union of product ids across both snapshots, for
// the advisory allocation refresh.
func touchedProducts(prev, next orderState) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(prev.Items)+len(next.Items))
	var ids []uuid.UUID
	for _, item := range prev.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	for _, item := range next.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
