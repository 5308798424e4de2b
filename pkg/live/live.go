// Package live tracks whether the streams on a wall are currently live.
//
// Status lookups are delegated to a [Resolver]. The package ships an
// [HTTPResolver] that talks to a JSON resolver service, and a [Poller] that
// runs a resolver on an interval, keeps the latest results in a [Statuses]
// table and caches them in a [store.Store] so a restart does not start from
// an empty table.
//
// Live status never feeds back into layouts: tiles stay where they are
// whether their stream is live or not.
package live

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/streamwall/pkg/source"
)

// SourceRef identifies one stream to resolve.
type SourceRef = source.Ref

// Status is the last known live state of one stream.
type Status struct {
	IsLive  bool   `json:"is_live"`
	VideoID string `json:"video_id,omitempty"`
	// ConsentRequired is set when the platform served a consent wall
	// instead of the channel page.
	ConsentRequired bool `json:"consent_required,omitempty"`
	// Uncertain is set when the resolver could not tell.
	Uncertain bool      `json:"uncertain,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitzero"`
}

// Channel is channel metadata resolved from a URL.
type Channel struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// Resolver looks up the live status of a batch of streams. The result is
// keyed by stream ID; streams missing from it are treated as uncertain.
type Resolver interface {
	Resolve(ctx context.Context, refs []SourceRef) (map[string]Status, error)
}

// ChannelResolver resolves channel URLs to channel metadata, keyed by the
// requested URL.
type ChannelResolver interface {
	ResolveChannels(ctx context.Context, urls []string) (map[string]Channel, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, refs []SourceRef) (map[string]Status, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
	return f(ctx, refs)
}

// Statuses is a concurrency-safe table of stream statuses.
type Statuses struct {
	mu sync.RWMutex
	m  map[string]Status
}

// NewStatuses returns an empty table.
func NewStatuses() *Statuses {
	return &Statuses{m: make(map[string]Status)}
}

// Get returns the status of id.
func (s *Statuses) Get(id string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[id]
	return st, ok
}

// Update merges statuses into the table.
func (s *Statuses) Update(statuses map[string]Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range statuses {
		s.m[id] = st
	}
}

// Retain drops every entry whose ID is not in ids.
func (s *Statuses) Retain(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.m {
		if !slices.Contains(ids, id) {
			delete(s.m, id)
		}
	}
}

// Snapshot returns a copy of the table.
func (s *Statuses) Snapshot() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Status, len(s.m))
	for id, st := range s.m {
		out[id] = st
	}
	return out
}

// Live returns the sorted IDs of streams that are live.
func (s *Statuses) Live() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, st := range s.m {
		if st.IsLive {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of entries.
func (s *Statuses) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
