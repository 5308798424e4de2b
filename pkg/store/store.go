// Package store provides key/value blob storage and the manual-layout
// repository built on top of it.
//
// # Backends
//
// Every backend implements [Store]:
//
//   - [FileStore]: hashed JSON entry files with optional expiry, for the CLI
//   - [MemoryStore]: in-process map, for tests and the HTTP server
//   - [NullStore]: stores nothing, for disabling persistence
//   - [RedisStore]: Redis via go-redis, for shared deployments
//   - [MongoStore]: one MongoDB document per key
//   - [ScopedStore]: a key prefix over any other store
//
// # Manual Layouts
//
// [Layouts] persists the user's manual arrangement per project and mode
// under "<projectID>_<mode>". Blobs are versioned JSON:
//
//	{"version":1,"items":[{"id":"twitch:shroud","x":0,"y":0,"w":2,"h":2}]}
//
// Older installs stored a bare JSON array under "<projectID>" for every mode.
// [Layouts.Migrate] copies such a legacy blob to the mode-scoped key once and
// removes the legacy key.
//
// Layout persistence never fails the caller: malformed blobs read as absent
// and storage errors are logged and swallowed.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Store is a key/value blob store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the blob stored under key. A missing or expired key is
	// reported as ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrEmptyKey is returned for an empty key.
	ErrEmptyKey = errors.New("empty key")
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// expired reports whether an entry with the given expiry time is stale.
// The zero time never expires.
func expired(expiresAt time.Time, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}

// expiry returns the absolute expiry for ttl, zero for no expiry.
func expiry(ttl time.Duration, now time.Time) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
