package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelry-commerce/events"
)

func ring(qty int) LineItem {
	return LineItem{
		ProductID: "prod-ring",
		UnitPrice: decimal.NewFromInt(50),
		Variants:  map[string]string{"size": "7", "metal": "gold"},
		Quantity:  qty,
	}
}

type recordingSink struct {
	names []string
}

func (r *recordingSink) Emit(e events.Event) {
	r.names = append(r.names, e.Name)
}

func TestAddSameSelectionMerges(t *testing.T) {
	c := New(nil)

	require.NoError(t, c.AddItem(ring(1)))
	require.NoError(t, c.AddItem(ring(2)))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, c.TotalQuantity())
}

func TestDifferentVariantSelectionIsDistinct(t *testing.T) {
	c := New(nil)
	silver := ring(1)
	silver.Variants = map[string]string{"size": "7", "metal": "silver"}

	require.NoError(t, c.AddItem(ring(1)))
	require.NoError(t, c.AddItem(silver))

	assert.Len(t, c.Items(), 2)
}

func TestKeyIgnoresVariantMapOrder(t *testing.T) {
	a := LineItem{ProductID: "p", Variants: map[string]string{"color": "Blue", "size": "S"}}
	b := LineItem{ProductID: "p", Variants: map[string]string{"size": "S", "color": "Blue"}}
	assert.Equal(t, a.Key(), b.Key())
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := New(nil)
	first := ring(1)
	second := LineItem{ProductID: "prod-necklace", UnitPrice: decimal.NewFromInt(30), Quantity: 1}
	third := LineItem{ProductID: "prod-bracelet", UnitPrice: decimal.NewFromInt(20), Quantity: 1}

	require.NoError(t, c.AddItem(first))
	require.NoError(t, c.AddItem(second))
	require.NoError(t, c.AddItem(third))
	require.NoError(t, c.AddItem(first)) // merge must not re-sort

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "prod-ring", items[0].ProductID)
	assert.Equal(t, "prod-necklace", items[1].ProductID)
	assert.Equal(t, "prod-bracelet", items[2].ProductID)
}

func TestQuantityZeroRemovesItem(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddItem(ring(2)))

	key := ring(2).Key()
	require.NoError(t, c.UpdateQuantity(key, 0))

	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestRemoveItem(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddItem(ring(1)))

	require.NoError(t, c.RemoveItem(ring(1).Key()))
	assert.Empty(t, c.Items())

	assert.ErrorIs(t, c.RemoveItem(ring(1).Key()), ErrItemNotFound)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New(nil)
	assert.ErrorIs(t, c.AddItem(ring(0)), ErrInvalidQuantity)
	assert.Empty(t, c.Items())
}

func TestClear(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddItem(ring(1)))

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestRestoreDropsZeroQuantityItems(t *testing.T) {
	c := Restore([]LineItem{ring(2), ring(0)}, nil)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Items()[0].Quantity)
}

func TestSubscriberNotifiedOnMutation(t *testing.T) {
	c := New(nil)
	calls := 0
	c.Subscribe(func() { calls++ })

	require.NoError(t, c.AddItem(ring(1)))
	require.NoError(t, c.UpdateQuantity(ring(1).Key(), 5))
	c.Clear()

	assert.Equal(t, 3, calls)
}

func TestEventsEmittedAfterMutation(t *testing.T) {
	sink := &recordingSink{}
	c := New(sink)

	require.NoError(t, c.AddItem(ring(1)))
	require.NoError(t, c.RemoveItem(ring(1).Key()))

	assert.Equal(t, []string{"cart.item_added", "cart.item_removed"}, sink.names)
}

func TestLines(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddItem(ring(2)))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(50)))
}
