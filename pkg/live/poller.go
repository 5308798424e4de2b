package live

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/streamwall/pkg/observability"
	"github.com/matzehuels/streamwall/pkg/store"
)

// DefaultInterval is the default time between polls.
const DefaultInterval = 60 * time.Second

// cachePrefix scopes status entries in a shared store.
const cachePrefix = "live:"

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the poll interval. Non-positive values keep the default.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithCache stores each status in s for ttl. A zero ttl uses twice the
// poll interval.
func WithCache(s store.Store, ttl time.Duration) PollerOption {
	return func(p *Poller) {
		p.cache = store.NewScopedStore(s, cachePrefix)
		p.ttl = ttl
	}
}

// WithCallback is called with the full status table after every poll that
// succeeded.
func WithCallback(fn func(map[string]Status)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// WithPollerLogger sets the poller logger.
func WithPollerLogger(l *log.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// Poller runs a Resolver on an interval.
type Poller struct {
	resolver Resolver
	sources  func() []SourceRef
	interval time.Duration

	statuses *Statuses
	cache    store.Store
	ttl      time.Duration
	onUpdate func(map[string]Status)
	now      func() time.Time
	logger   *log.Logger
}

// NewPoller returns a poller resolving whatever sources returns at the start
// of each poll.
func NewPoller(r Resolver, sources func() []SourceRef, opts ...PollerOption) *Poller {
	p := &Poller{
		resolver: r,
		sources:  sources,
		interval: DefaultInterval,
		statuses: NewStatuses(),
		cache:    store.NewNullStore(),
		now:      time.Now,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ttl <= 0 {
		p.ttl = 2 * p.interval
	}
	return p
}

// Sources returns a source function over a fixed set of refs.
func Sources(refs ...SourceRef) func() []SourceRef {
	return func() []SourceRef { return refs }
}

// Statuses returns the live table.
func (p *Poller) Statuses() *Statuses { return p.statuses }

// Interval returns the poll interval.
func (p *Poller) Interval() time.Duration { return p.interval }

// Warm fills the table from the cache and returns how many entries it found.
func (p *Poller) Warm(ctx context.Context) int {
	found := make(map[string]Status)
	for _, ref := range p.sources() {
		data, ok, err := p.cache.Get(ctx, ref.ID())
		if err != nil {
			p.logger.Warn("read cached status", "stream", ref.ID(), "err", err)
			continue
		}
		if !ok {
			continue
		}
		var st Status
		if err := json.Unmarshal(data, &st); err != nil {
			continue
		}
		found[ref.ID()] = st
	}
	p.statuses.Update(found)
	return len(found)
}

// Poll resolves the current sources once. On error the table keeps its
// previous contents.
func (p *Poller) Poll(ctx context.Context) (map[string]Status, error) {
	refs := p.sources()
	start := p.now()
	observability.Poll().OnPollStart(ctx, len(refs))

	got, err := p.resolver.Resolve(ctx, refs)
	if err != nil {
		observability.Poll().OnPollComplete(ctx, len(refs), 0, time.Since(start), err)
		return nil, err
	}

	ids := make([]string, len(refs))
	result := make(map[string]Status, len(refs))
	live := 0
	for i, ref := range refs {
		id := ref.ID()
		ids[i] = id
		st, ok := got[id]
		if !ok {
			st = Status{Uncertain: true}
		}
		if st.CheckedAt.IsZero() {
			st.CheckedAt = start
		}
		if st.IsLive {
			live++
		}
		result[id] = st
		p.store(ctx, id, st)
	}

	p.statuses.Retain(ids)
	p.statuses.Update(result)
	observability.Poll().OnPollComplete(ctx, len(refs), live, time.Since(start), nil)
	p.logger.Debug("poll complete", "sources", len(refs), "live", live)

	if p.onUpdate != nil {
		p.onUpdate(p.statuses.Snapshot())
	}
	return result, nil
}

// Run warms the table, polls immediately and then on every tick until ctx is
// cancelled. Poll errors are logged; Run only returns when ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	if n := p.Warm(ctx); n > 0 {
		p.logger.Debug("restored cached statuses", "count", n)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("live status poll failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) store(ctx context.Context, id string, st Status) {
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, id, data, p.ttl); err != nil {
		p.logger.Warn("cache status", "stream", id, "err", err)
	}
}
