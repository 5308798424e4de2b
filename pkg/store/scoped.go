package store

import (
	"context"
	"time"
)

// ScopedStore prefixes every key before delegating, giving callers separate
// namespaces on one backend:
//
//	layouts := store.NewScopedStore(backend, "layout:")
//	status := store.NewScopedStore(backend, "status:")
type ScopedStore struct {
	inner  Store
	prefix string
}

// NewScopedStore wraps inner with a key prefix. A nil inner becomes a
// [NullStore].
func NewScopedStore(inner Store, prefix string) *ScopedStore {
	if inner == nil {
		inner = NewNullStore()
	}
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Get retrieves prefix+key from the inner store.
func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores prefix+key in the inner store.
func (s *ScopedStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes prefix+key from the inner store.
func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner store.
func (s *ScopedStore) Close() error { return s.inner.Close() }

// Prefix returns the key prefix.
func (s *ScopedStore) Prefix() string { return s.prefix }

var _ Store = (*ScopedStore)(nil)
