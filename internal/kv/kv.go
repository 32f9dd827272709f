// Package kv abstracts the string-keyed blob store used to persist cart
// snapshots. Implementations must be safe for concurrent use.
package kv

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when no value exists under the given key.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value blob store. Values are opaque byte slices;
// callers own serialization.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
