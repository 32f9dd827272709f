package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/velmora/storefront/internal/kv"
)

// Store owns the authoritative cart state for one session. It applies
// commands through the pure transition function and persists the resulting
// snapshot best-effort: write failures are logged and swallowed, the
// in-memory state stays authoritative.
//
// Stores are explicitly constructed and injected; there is no ambient
// instance. NewStore hydrates before returning, so no persist can ever
// precede hydration.
type Store struct {
	kv  kv.Store
	key string
	lg  *zap.Logger

	mu    sync.Mutex
	state State
}

// NewStore creates a Store bound to the given persistence key and hydrates it
// from any previously saved snapshot. A missing, unreadable, or structurally
// invalid snapshot is non-fatal: the store starts empty and the failure is
// only logged.
func NewStore(ctx context.Context, store kv.Store, key string, lg *zap.Logger) *Store {
	s := &Store{
		kv:    store,
		key:   key,
		lg:    lg,
		state: Empty(),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.lg.Warn("cart hydration read failed, starting empty",
				zap.String("key", s.key), zap.Error(err))
		}
		return
	}

	restored, err := decodeState(data)
	if err != nil {
		s.lg.Warn("cart snapshot unparseable, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return
	}

	if err := validate(restored); err != nil {
		s.lg.Warn("cart snapshot structurally invalid, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return
	}

	// Rederive totals rather than trusting the stored aggregates. For a
	// consistent snapshot this is the identity.
	s.state = derive(restored)
}

// validate checks the structural invariants of a restored snapshot: non-empty
// keys, unique within the collection, quantities >= 1.
func validate(s State) error {
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if item.Key == "" {
			return errors.New("line item with empty key")
		}
		if item.Quantity < 1 {
			return errors.Errorf("line item %q has quantity %d", item.Key, item.Quantity)
		}
		if _, dup := seen[item.Key]; dup {
			return errors.Errorf("duplicate line item key %q", item.Key)
		}
		seen[item.Key] = struct{}{}
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state)
}

// AddItem inserts the product with the given quantity and variant selectors,
// accumulating onto an existing line item with the same identity. A quantity
// below 1 counts as 1.
func (s *Store) AddItem(ctx context.Context, cmd AddItem) State {
	return s.dispatch(ctx, cmd)
}

// RemoveItem removes the line item with the given key; unknown keys are a
// silent no-op.
func (s *Store) RemoveItem(ctx context.Context, key string) State {
	return s.dispatch(ctx, RemoveItem{Key: key})
}

// UpdateQuantity overwrites the quantity of the line item with the given key,
// clamped to a floor of 1. Callers wanting removal must use RemoveItem.
// Unknown keys are a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) State {
	return s.dispatch(ctx, UpdateQuantity{Key: key, Quantity: quantity})
}

// Clear resets the cart to the canonical empty state.
func (s *Store) Clear(ctx context.Context) State {
	return s.dispatch(ctx, Clear{})
}

// dispatch applies the command atomically with respect to other mutations and
// then persists the resulting snapshot as an observer of the new state.
func (s *Store) dispatch(ctx context.Context, cmd Command) State {
	s.mu.Lock()
	next := Apply(s.state, cmd)
	s.state = next
	s.mu.Unlock()

	s.persist(ctx, next)
	return next
}

// persist writes the full snapshot, superseding any prior value. Failures do
// not roll back the in-memory mutation and never surface to the caller.
func (s *Store) persist(ctx context.Context, state State) {
	if err := s.kv.Set(ctx, s.key, encodeState(state)); err != nil {
		s.lg.Warn("cart snapshot write failed",
			zap.String("key", s.key), zap.Error(err))
	}
}
