package orders

import (
	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
)

// foldItems merges duplicate product lines, summing quantity and backorder.
// Output order follows first appearance of each product.
func foldItems(items []ItemInput) []ItemInput {
	index := make(map[uuid.UUID]int, len(items))
	folded := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if pos, ok := index[item.ProductID]; ok {
			folded[pos].Quantity += item.Quantity
			folded[pos].Backorder += item.Backorder
			continue
		}
		index[item.ProductID] = len(folded)
		folded = append(folded, item)
	}
	return folded
}

// itemDiff is the result of reconciling an incoming item list against the
// stored set: survivors are upserted, absentees deleted.
type itemDiff struct {
	toUpsert []ItemInput
	toDelete []uuid.UUID
}

// diffItems performs the three-way reconcile between stored items and the
// already-folded incoming list, keyed by product.
func diffItems(existing []models.OrderItem, incoming []ItemInput) itemDiff {
	keep := make(map[uuid.UUID]struct{}, len(incoming))
	for _, item := range incoming {
		keep[item.ProductID] = struct{}{}
	}

	diff := itemDiff{toUpsert: incoming}
	for _, item := range existing {
		if _, ok := keep[item.ProductID]; !ok {
			diff.toDelete = append(diff.toDelete, item.ProductID)
		}
	}
	return diff
}
