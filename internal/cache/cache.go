package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Store is a byte-value cache. Implementations absorb their own
// failures: a broken backend behaves like a persistent miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Memo wraps a Store with get-or-compute semantics. Concurrent misses
// for one key are collapsed so the computation runs once. Compute
// failures are returned to every waiter and nothing is stored.
type Memo struct {
	store Store
	group singleflight.Group
}

func NewMemo(store Store) *Memo {
	return &Memo{store: store}
}

// Do returns the cached value for key, or runs compute, stores its
// result, and returns it.
func (m *Memo) Do(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	if value, ok := m.store.Get(ctx, key); ok {
		return value, nil
	}
	value, err, _ := m.group.Do(key, func() (interface{}, error) {
		if value, ok := m.store.Get(ctx, key); ok {
			return value, nil
		}
		computed, err := compute()
		if err != nil {
			return nil, err
		}
		m.store.Set(ctx, key, computed)
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}

// Key builds a stable cache key by hashing the given parts.
func Key(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%x", prefix, h.Sum(nil)[:16])
}
