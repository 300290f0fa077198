package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
)

func TestFoldItemsMergesDuplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	folded := foldItems([]ItemInput{
		{ProductID: a, Quantity: 3, Backorder: 1},
		{ProductID: b, Quantity: 2},
		{ProductID: a, Quantity: 4, Backorder: 2},
	})

	require.Len(t, folded, 2)
	assert.Equal(t, a, folded[0].ProductID)
	assert.Equal(t, 7, folded[0].Quantity)
	assert.Equal(t, 3, folded[0].Backorder)
	assert.Equal(t, b, folded[1].ProductID)
	assert.Equal(t, 2, folded[1].Quantity)
}

func TestFoldItemsPreservesFirstSeenOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	folded := foldItems([]ItemInput{
		{ProductID: c, Quantity: 1},
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 1},
		{ProductID: c, Quantity: 1},
	})

	require.Len(t, folded, 3)
	assert.Equal(t, []uuid.UUID{c, a, b}, []uuid.UUID{folded[0].ProductID, folded[1].ProductID, folded[2].ProductID})
	assert.Equal(t, 2, folded[0].Quantity)
}

func TestFoldItemsEmpty(t *testing.T) {
	assert.Empty(t, foldItems(nil))
}

func TestDiffItems(t *testing.T) {
	kept := uuid.New()
	removed := uuid.New()
	added := uuid.New()

	existing := []models.OrderItem{
		{ProductID: kept, Quantity: 1},
		{ProductID: removed, Quantity: 2},
	}
	incoming := []ItemInput{
		{ProductID: kept, Quantity: 5},
		{ProductID: added, Quantity: 3},
	}

	diff := diffItems(existing, incoming)

	assert.Equal(t, incoming, diff.toUpsert)
	assert.Equal(t, []uuid.UUID{removed}, diff.toDelete)
}

func TestDiffItemsEmptyIncomingDeletesAll(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	diff := diffItems([]models.OrderItem{{ProductID: a}, {ProductID: b}}, nil)

	assert.Empty(t, diff.toUpsert)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, diff.toDelete)
}
