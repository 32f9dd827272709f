package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/kv"
)

// failingKV rejects every operation, simulating a broken persistence medium.
type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("medium unavailable")
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("medium unavailable")
}

func (failingKV) Del(context.Context, string) error {
	return errors.New("medium unavailable")
}

// countingKV records writes so tests can assert on persistence behaviour.
type countingKV struct {
	kv.Store
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Store.Set(ctx, key, value)
}

func TestStore_StartsEmptyWithoutSnapshot(t *testing.T) {
	s := NewStore(context.Background(), kv.NewMemory(), "cart", zap.NewNop())

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Total.IsZero())
	assert.Zero(t, snap.ItemCount)
}

func TestStore_HydratesFromSnapshot(t *testing.T) {
	ctx := context.Background()
	medium := kv.NewMemory()

	first := NewStore(ctx, medium, "cart", zap.NewNop())
	first.AddItem(ctx, AddItem{Product: newTestProduct("p1", "500", "700"), Quantity: 2, Color: "red"})
	first.AddItem(ctx, AddItem{Product: newTestProduct("p2", "99.50", "120"), Quantity: 1})

	// A fresh store over the same medium adopts the saved snapshot.
	second := NewStore(ctx, medium, "cart", zap.NewNop())
	snap := second.Snapshot()

	require.Len(t, snap.Items, 2)
	assert.Equal(t, "p1-red", snap.Items[0].Key)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("1099.50").Equal(snap.Total))
	assert.Equal(t, 3, snap.ItemCount)
}

func TestStore_HydrationFailuresAreNonFatal(t *testing.T) {
	ctx := context.Background()

	corrupt := kv.NewMemory()
	require.NoError(t, corrupt.Set(ctx, "cart", []byte("{garbage")))

	invalid := kv.NewMemory()
	require.NoError(t, invalid.Set(ctx, "cart",
		[]byte(`{"items":[{"id":"p1","product":{"id":"p1"},"quantity":0,"color":null,"size":null}],"total":0,"itemCount":0}`)))

	duplicate := kv.NewMemory()
	require.NoError(t, duplicate.Set(ctx, "cart",
		[]byte(`{"items":[{"id":"p1","product":{"id":"p1"},"quantity":1,"color":null,"size":null},{"id":"p1","product":{"id":"p1"},"quantity":1,"color":null,"size":null}],"total":0,"itemCount":2}`)))

	tests := []struct {
		name   string
		medium kv.Store
	}{
		{name: "unparseable snapshot", medium: corrupt},
		{name: "quantity below one", medium: invalid},
		{name: "duplicate keys", medium: duplicate},
		{name: "medium read failure", medium: failingKV{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(ctx, tt.medium, "cart", zap.NewNop())

			snap := s.Snapshot()
			assert.Empty(t, snap.Items)
			assert.True(t, snap.Total.IsZero())
			assert.Zero(t, snap.ItemCount)
		})
	}
}

func TestStore_PersistsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	medium := &countingKV{Store: kv.NewMemory()}

	s := NewStore(ctx, medium, "cart", zap.NewNop())
	require.Zero(t, medium.sets, "hydration must not write")

	s.AddItem(ctx, AddItem{Product: newTestProduct("p1", "500", "700"), Quantity: 2})
	s.UpdateQuantity(ctx, "p1", 5)
	s.RemoveItem(ctx, "p1")
	s.Clear(ctx)

	assert.Equal(t, 4, medium.sets)
}

func TestStore_WriteFailureKeepsStateAuthoritative(t *testing.T) {
	ctx := context.Background()

	s := NewStore(ctx, failingKV{}, "cart", zap.NewNop())
	state := s.AddItem(ctx, AddItem{Product: newTestProduct("p1", "500", "700"), Quantity: 2})

	require.Len(t, state.Items, 1)
	assert.True(t, decimal.NewFromInt(1000).Equal(state.Total))

	// The failed write is invisible to subsequent reads.
	snap := s.Snapshot()
	assert.Equal(t, state.Items, snap.Items)
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, kv.NewMemory(), "cart", zap.NewNop())

	p1 := newTestProduct("p1", "500", "700")

	state := s.AddItem(ctx, AddItem{Product: p1, Quantity: 2})
	assert.True(t, decimal.NewFromInt(1000).Equal(state.Total))
	assert.Equal(t, 2, state.ItemCount)

	state = s.AddItem(ctx, AddItem{Product: p1, Quantity: 1})
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1500).Equal(state.Total))

	state = s.UpdateQuantity(ctx, "p1", 0)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(state.Total))

	state = s.RemoveItem(ctx, "p1")
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
	assert.Zero(t, state.ItemCount)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, kv.NewMemory(), "cart", zap.NewNop())
	s.AddItem(ctx, AddItem{Product: newTestProduct("p1", "500", "700"), Quantity: 2})

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)
}
