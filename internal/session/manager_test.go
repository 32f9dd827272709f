package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/domain/cart"
	"github.com/velmora/storefront/internal/domain/product"
	"github.com/velmora/storefront/internal/kv"
)

func testProduct(id string) product.Product {
	return product.Product{
		ID:           id,
		Name:         "Product " + id,
		MRP:          decimal.NewFromInt(700),
		SpecialPrice: decimal.NewFromInt(500),
		InStock:      true,
	}
}

func TestManager_SameSessionSameStore(t *testing.T) {
	m := NewManager(kv.NewMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	first := m.Get(ctx, "s1")
	second := m.Get(ctx, "s1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(kv.NewMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	a := m.Get(ctx, "alice")
	a.AddItem(ctx, cart.AddItem{Product: testProduct("p1"), Quantity: 2})

	b := m.Get(ctx, "bob")
	assert.Empty(t, b.Snapshot().Items)
	assert.Len(t, a.Snapshot().Items, 1)
}

func TestManager_RehydratesAfterEviction(t *testing.T) {
	medium := kv.NewMemory()
	m := NewManager(medium, time.Minute, zap.NewNop())
	ctx := context.Background()

	store := m.Get(ctx, "s1")
	store.AddItem(ctx, cart.AddItem{Product: testProduct("p1"), Quantity: 3})

	// Simulate the idle sweep: the cached store goes away, the snapshot stays.
	m.evict(time.Now().Add(2 * time.Minute))
	require.Zero(t, m.Len())

	again := m.Get(ctx, "s1")
	snap := again.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 3, snap.ItemCount)
}

func TestManager_EvictKeepsFreshSessions(t *testing.T) {
	m := NewManager(kv.NewMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	m.Get(ctx, "fresh")
	m.evict(time.Now().Add(30 * time.Second))

	assert.Equal(t, 1, m.Len())
}
