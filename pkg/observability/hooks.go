// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about layout
// recomputation, interaction commits, store access and live-status polling.
// The defaults are no-ops, so libraries can call hooks unconditionally.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// [UseLogger] installs hooks that write every event to a debug logger.
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := grid.Repair(layout, ids, m, "")
//	observability.Engine().OnRepair(ctx, len(ids), res.Iterations, res.Valid, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the layout engine and the interaction session.
type EngineHooks interface {
	// OnRecompute fires after a board recomputed its layout for a structural change.
	OnRecompute(ctx context.Context, mode string, tiles int, duration time.Duration)

	// OnRepair fires after a repair pass, valid or not.
	OnRepair(ctx context.Context, tiles, iterations int, valid bool, duration time.Duration)

	// OnCommit fires when an interaction ends. outcome is "committed" or "rolled_back".
	OnCommit(ctx context.Context, kind, tileID, outcome string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from blob store operations.
type StoreHooks interface {
	// OnStoreHit records a successful lookup.
	OnStoreHit(ctx context.Context, keyType string)

	// OnStoreMiss records a lookup that found nothing.
	OnStoreMiss(ctx context.Context, keyType string)

	// OnStoreSet records a write.
	OnStoreSet(ctx context.Context, keyType string, size int)

	// OnStoreError records a swallowed storage failure.
	OnStoreError(ctx context.Context, keyType string, err error)
}

// =============================================================================
// Poll Hooks
// =============================================================================

// PollHooks receives events from the live-status poller.
type PollHooks interface {
	// OnPollStart records the start of one resolver round.
	OnPollStart(ctx context.Context, sources int)

	// OnPollComplete records the end of one resolver round.
	OnPollComplete(ctx context.Context, sources, live int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRecompute(context.Context, string, int, time.Duration) {}
func (NoopEngineHooks) OnRepair(context.Context, int, int, bool, time.Duration) {}
func (NoopEngineHooks) OnCommit(context.Context, string, string, string)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)          {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)         {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int)     {}
func (NoopStoreHooks) OnStoreError(context.Context, string, error) {}

// NoopPollHooks is a no-op implementation of PollHooks.
type NoopPollHooks struct{}

func (NoopPollHooks) OnPollStart(context.Context, int)                               {}
func (NoopPollHooks) OnPollComplete(context.Context, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	pollHooks   PollHooks   = NoopPollHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetPollHooks registers custom poll hooks.
// This should be called once at application startup.
func SetPollHooks(h PollHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pollHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Poll returns the registered poll hooks.
func Poll() PollHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pollHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	storeHooks = NoopStoreHooks{}
	pollHooks = NoopPollHooks{}
}
