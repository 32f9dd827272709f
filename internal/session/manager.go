// Package session hands out one hydrated cart store per storefront session.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/domain/cart"
	"github.com/velmora/storefront/internal/kv"
)

// snapshotKeyPrefix namespaces cart snapshots in the persistence medium.
const snapshotKeyPrefix = "cart:"

// entry pairs a live store with its last access time for TTL eviction.
type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

// Manager lazily constructs and caches one cart.Store per session ID. Stores
// idle longer than the TTL are evicted from the in-process cache; their
// snapshots stay in the persistence medium and rehydrate on next access.
type Manager struct {
	medium kv.Store
	lg     *zap.Logger
	ttl    time.Duration

	mu     sync.Mutex
	stores map[string]*entry
}

// NewManager creates a Manager over the given persistence medium.
func NewManager(medium kv.Store, ttl time.Duration, lg *zap.Logger) *Manager {
	return &Manager{
		medium: medium,
		lg:     lg,
		ttl:    ttl,
		stores: make(map[string]*entry),
	}
}

// Get returns the cart store for the given session, hydrating a new one from
// the persistence medium when the session is not cached.
func (m *Manager) Get(ctx context.Context, sessionID string) *cart.Store {
	now := time.Now()

	m.mu.Lock()
	if e, ok := m.stores[sessionID]; ok {
		e.lastSeen = now
		m.mu.Unlock()
		return e.store
	}
	m.mu.Unlock()

	// Hydrate outside the lock: the medium may be remote. A concurrent Get
	// for the same session may race here; the first registration wins and
	// both hydrated from the same snapshot.
	store := cart.NewStore(ctx, m.medium, snapshotKeyPrefix+sessionID,
		m.lg.With(zap.String("session", sessionID)))

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.stores[sessionID]; ok {
		e.lastSeen = now
		return e.store
	}
	m.stores[sessionID] = &entry{store: store, lastSeen: now}
	return store
}

// evict removes cached stores idle longer than the TTL.
func (m *Manager) evict(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.stores {
		if now.Sub(e.lastSeen) >= m.ttl {
			delete(m.stores, id)
		}
	}
}

// StartEviction launches a background goroutine that periodically evicts
// idle stores. It stops when ctx is cancelled.
func (m *Manager) StartEviction(ctx context.Context) {
	interval := m.ttl
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.evict(now)
			}
		}
	}()
}

// Len reports the number of cached stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
