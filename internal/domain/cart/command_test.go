package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertDerived checks that Total and ItemCount match what the items imply.
func assertDerived(t *testing.T, s State) {
	t.Helper()

	total := decimal.Zero
	count := 0
	for _, item := range s.Items {
		total = total.Add(item.Product.SpecialPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	assert.True(t, total.Equal(s.Total), "total: got %s, derived %s", s.Total, total)
	assert.Equal(t, count, s.ItemCount)
}

func TestApply_AddAccumulates(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	s := Apply(Empty(), AddItem{Product: p, Quantity: 2})
	s = Apply(s, AddItem{Product: p, Quantity: 3})

	require.Len(t, s.Items, 1)
	assert.Equal(t, 5, s.Items[0].Quantity)
	assertDerived(t, s)
}

func TestApply_AddDistinguishesVariants(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	s := Apply(Empty(), AddItem{Product: p, Quantity: 1, Color: "red"})
	s = Apply(s, AddItem{Product: p, Quantity: 1, Color: "blue"})

	require.Len(t, s.Items, 2)
	assert.Equal(t, "p1-red", s.Items[0].Key)
	assert.Equal(t, "p1-blue", s.Items[1].Key)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 1, s.Items[1].Quantity)
	assertDerived(t, s)
}

func TestApply_AddPreservesInsertionOrder(t *testing.T) {
	s := Empty()
	for _, id := range []string{"c", "a", "b"} {
		s = Apply(s, AddItem{Product: newTestProduct(id, "10", "20"), Quantity: 1})
	}

	require.Len(t, s.Items, 3)
	assert.Equal(t, "c", s.Items[0].Key)
	assert.Equal(t, "a", s.Items[1].Key)
	assert.Equal(t, "b", s.Items[2].Key)
}

func TestApply_AddClampsQuantityToOne(t *testing.T) {
	p := newTestProduct("p1", "100", "150")

	s := Apply(Empty(), AddItem{Product: p, Quantity: 0})

	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assertDerived(t, s)
}

func TestApply_UpdateQuantityFloor(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	for _, qty := range []int{0, -5} {
		s := Apply(Empty(), AddItem{Product: p, Quantity: 3})
		s = Apply(s, UpdateQuantity{Key: "p1", Quantity: qty})

		// Clamped to 1, never removed.
		require.Len(t, s.Items, 1, "quantity %d", qty)
		assert.Equal(t, 1, s.Items[0].Quantity, "quantity %d", qty)
		assertDerived(t, s)
	}
}

func TestApply_UpdateQuantityOverwrites(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	s := Apply(Empty(), AddItem{Product: p, Quantity: 2})
	s = Apply(s, UpdateQuantity{Key: "p1", Quantity: 7})

	require.Len(t, s.Items, 1)
	assert.Equal(t, 7, s.Items[0].Quantity)
	assertDerived(t, s)
}

func TestApply_UpdateUnknownKeyIsNoop(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	before := Apply(Empty(), AddItem{Product: p, Quantity: 2})
	after := Apply(before, UpdateQuantity{Key: "ghost", Quantity: 9})

	assert.Equal(t, before.Items, after.Items)
	assertDerived(t, after)
}

func TestApply_RemoveIsTolerant(t *testing.T) {
	p := newTestProduct("p1", "500", "700")

	before := Apply(Empty(), AddItem{Product: p, Quantity: 2})
	after := Apply(before, RemoveItem{Key: "nonexistent-id"})

	assert.Equal(t, before.Items, after.Items)
	assertDerived(t, after)
}

func TestApply_RemoveDeletesLine(t *testing.T) {
	s := Apply(Empty(), AddItem{Product: newTestProduct("p1", "10", "20"), Quantity: 1})
	s = Apply(s, AddItem{Product: newTestProduct("p2", "30", "40"), Quantity: 2})
	s = Apply(s, RemoveItem{Key: "p1"})

	require.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].Key)
	assertDerived(t, s)
}

func TestApply_ClearResetsFully(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem{Product: newTestProduct("p1", "10", "20"), Quantity: 5})
	s = Apply(s, AddItem{Product: newTestProduct("p2", "30", "40"), Quantity: 1})
	s = Apply(s, UpdateQuantity{Key: "p1", Quantity: 2})
	s = Apply(s, Clear{})

	assert.Empty(t, s.Items)
	assert.True(t, s.Total.IsZero())
	assert.Zero(t, s.ItemCount)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	p1 := newTestProduct("p1", "10", "20")
	before := Apply(Empty(), AddItem{Product: p1, Quantity: 2})

	_ = Apply(before, UpdateQuantity{Key: "p1", Quantity: 9})
	_ = Apply(before, RemoveItem{Key: "p1"})
	_ = Apply(before, AddItem{Product: p1, Quantity: 1})

	require.Len(t, before.Items, 1)
	assert.Equal(t, 2, before.Items[0].Quantity)
	assertDerived(t, before)
}

func TestApply_Scenario(t *testing.T) {
	p1 := newTestProduct("p1", "500", "700")

	s := Apply(Empty(), AddItem{Product: p1, Quantity: 2})
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1000).Equal(s.Total))
	assert.Equal(t, 2, s.ItemCount)

	s = Apply(s, AddItem{Product: p1, Quantity: 1})
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1500).Equal(s.Total))
	assert.Equal(t, 3, s.ItemCount)

	s = Apply(s, UpdateQuantity{Key: "p1", Quantity: 0})
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(s.Total))
	assert.Equal(t, 1, s.ItemCount)

	s = Apply(s, RemoveItem{Key: "p1"})
	assert.Empty(t, s.Items)
	assert.True(t, s.Total.IsZero())
	assert.Zero(t, s.ItemCount)
}
