// Package session implements the drag/resize commit protocol for one grid.
//
// A [Session] is owned by whatever manages a single grid instance. It moves
// through three states:
//
//	Idle ──Begin──▶ Interacting ──Stop──▶ Committing ──▶ Idle
//	                     │                                 ▲
//	                     └────────────Cancel───────────────┘
//
// Begin records the current layout as the rollback snapshot. While a resize is
// in progress, every proposal is checked against the grid capacity; a tile
// that would leave less than one cell for each other tile marks the
// interaction as rejected and the visible layout snaps back to the snapshot.
//
// Stop sanitizes the final proposal and accepts it when it is already valid.
// Otherwise drags go through a full repair, growing resizes through
// minimal-moves reflow and then repair, and shrinking resizes are accepted
// only when valid as proposed. Anything that is still invalid rolls back.
// Accepted layouts are handed to the [Committer] and become the new snapshot.
//
// # Usage
//
//	s := session.New(session.WithCommitter(repo))
//	s.Sync(layout, streamIDs, metrics)
//
//	if err := s.Begin(session.KindResize, "twitch:shroud"); err != nil {
//	    return err
//	}
//	s.Resize(proposal)
//	res, err := s.Stop(ctx, proposal)
package session

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/observability"
)

// Sentinel errors for session operations.
var (
	// ErrBusy is returned by Begin and Sync while an interaction is running.
	ErrBusy = swerrors.New(swerrors.ErrCodeBusy, "interaction already in progress")

	// ErrIdle is returned when an update arrives without an interaction.
	ErrIdle = swerrors.New(swerrors.ErrCodeInvalidInput, "no interaction in progress")

	// ErrWrongKind is returned when a drag update arrives during a resize or
	// the other way round.
	ErrWrongKind = swerrors.New(swerrors.ErrCodeInvalidInput, "update does not match interaction kind")

	// ErrUnknownTile is returned by Begin for a tile that is not on the grid.
	ErrUnknownTile = swerrors.New(swerrors.ErrCodeNotFound, "unknown tile")
)

// State is the interaction state of a session.
type State int

const (
	Idle State = iota
	Interacting
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Interacting:
		return "interacting"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Kind is the type of user gesture.
type Kind string

const (
	KindDrag   Kind = "drag"
	KindResize Kind = "resize"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == KindDrag || k == KindResize }

// Outcome is how an interaction ended.
type Outcome string

const (
	Committed  Outcome = "committed"
	RolledBack Outcome = "rolled_back"
)

// Result describes a finished interaction.
type Result struct {
	Outcome Outcome     `json:"outcome"`
	Layout  grid.Layout `json:"layout"`
	// Repaired is set when the proposal had to be reflowed or repaired
	// before it was accepted.
	Repaired bool `json:"repaired,omitempty"`
}

// Committer persists an accepted layout.
type Committer interface {
	Commit(ctx context.Context, l grid.Layout) error
}

// CommitFunc adapts a function to [Committer].
type CommitFunc func(ctx context.Context, l grid.Layout) error

// Commit calls f.
func (f CommitFunc) Commit(ctx context.Context, l grid.Layout) error { return f(ctx, l) }

// Option configures a Session.
type Option func(*Session)

// WithCommitter sets where accepted layouts go. Commit failures are logged
// and otherwise ignored.
func WithCommitter(c Committer) Option {
	return func(s *Session) { s.committer = c }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session tracks one drag or resize at a time for a single grid. It is not
// safe for concurrent use.
type Session struct {
	state   State
	kind    Kind
	subject string

	current   grid.Layout
	lastValid grid.Layout
	streamIDs []string
	metrics   grid.Metrics

	rejected bool

	committer Committer
	logger    *log.Logger
}

// New creates an idle session with an empty layout.
func New(opts ...Option) *Session {
	s := &Session{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync replaces the layout, stream set and metrics after a recompute. It
// fails with [ErrBusy] unless the session is idle.
func (s *Session) Sync(l grid.Layout, streamIDs []string, m grid.Metrics) error {
	if s.state != Idle {
		return ErrBusy
	}
	s.current = l.Clone()
	s.streamIDs = append([]string(nil), streamIDs...)
	s.metrics = m
	return nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Kind returns the kind of the running interaction, or "" when idle.
func (s *Session) Kind() Kind { return s.kind }

// Subject returns the tile being dragged or resized, or "" when idle.
func (s *Session) Subject() string { return s.subject }

// Rejected reports whether the running resize was rejected.
func (s *Session) Rejected() bool { return s.rejected }

// Layout returns a copy of the layout currently shown.
func (s *Session) Layout() grid.Layout { return s.current.Clone() }

// LastValid returns a copy of the rollback snapshot, nil before the first
// interaction.
func (s *Session) LastValid() grid.Layout { return s.lastValid.Clone() }

// Begin starts a drag or resize of tile id.
func (s *Session) Begin(kind Kind, id string) error {
	if s.state != Idle {
		return ErrBusy
	}
	if !kind.Valid() {
		return swerrors.New(swerrors.ErrCodeInvalidInput, "unknown interaction kind %q", kind)
	}
	if _, ok := s.current.Find(id); !ok {
		return swerrors.Wrap(swerrors.ErrCodeNotFound, ErrUnknownTile, "tile %q", id)
	}

	s.state = Interacting
	s.kind = kind
	s.subject = id
	s.rejected = false
	s.lastValid = s.current.Clone()
	s.logger.Debug("interaction started", "kind", kind, "tile", id)
	return nil
}

// Drag records an intermediate drag proposal as the visible layout.
func (s *Session) Drag(proposed grid.Layout) error {
	if err := s.expect(KindDrag); err != nil {
		return err
	}
	s.current = proposed.Clone()
	return nil
}

// Resize records an intermediate resize proposal. It reports whether the
// interaction is rejected; a rejected resize shows the rollback snapshot
// until it stops.
func (s *Session) Resize(proposed grid.Layout) (rejected bool, err error) {
	if err := s.expect(KindResize); err != nil {
		return false, err
	}
	if s.rejected {
		return true, nil
	}
	if s.exceedsCapacity(proposed) {
		s.rejected = true
		s.current = s.lastValid.Clone()
		s.logger.Debug("resize rejected", "tile", s.subject)
		return true, nil
	}
	s.current = proposed.Clone()
	return false, nil
}

// Stop ends the interaction with the final proposal.
func (s *Session) Stop(ctx context.Context, proposed grid.Layout) (Result, error) {
	if s.state != Interacting {
		return Result{}, ErrIdle
	}
	if s.rejected || (s.kind == KindResize && s.exceedsCapacity(proposed)) {
		return s.rollback(ctx), nil
	}

	s.state = Committing
	l, repaired, ok := s.settle(proposed)
	if !ok {
		return s.rollback(ctx), nil
	}

	if s.committer != nil {
		if err := s.committer.Commit(ctx, l); err != nil {
			s.logger.Warn("persist layout failed", "err", err)
		}
	}
	s.lastValid = l.Clone()
	s.current = l
	observability.Engine().OnCommit(ctx, string(s.kind), s.subject, string(Committed))
	s.logger.Debug("interaction committed", "kind", s.kind, "tile", s.subject, "repaired", repaired)
	s.finish()

	return Result{Outcome: Committed, Layout: l.Clone(), Repaired: repaired}, nil
}

// Cancel abandons the running interaction and restores the snapshot. It is
// a no-op when idle.
func (s *Session) Cancel(ctx context.Context) Result {
	if s.state == Idle {
		return Result{Outcome: RolledBack, Layout: s.current.Clone()}
	}
	return s.rollback(ctx)
}

// settle turns a proposal into an acceptable layout.
func (s *Session) settle(proposed grid.Layout) (grid.Layout, bool, bool) {
	ids, m := s.streamIDs, s.metrics
	san := grid.Sanitize(proposed, ids, m)
	if acceptable(san, ids, m) {
		return san, false, true
	}

	switch {
	case s.kind == KindDrag:
		res := grid.Repair(san, ids, m, s.subject)
		return res.Layout, true, res.Valid

	case s.grew(san):
		reflowed := grid.ResolveResize(san, ids, m, s.subject)
		if acceptable(reflowed, ids, m) {
			return reflowed, true, true
		}
		res := grid.Repair(reflowed, ids, m, s.subject)
		return res.Layout, true, res.Valid
	}

	// A shrinking resize never needs to displace other tiles.
	return nil, false, false
}

// grew reports whether the subject in l is larger than in the snapshot, by
// area or along either dimension.
func (s *Session) grew(l grid.Layout) bool {
	now, ok := l.Find(s.subject)
	if !ok {
		return false
	}
	before, ok := s.lastValid.Find(s.subject)
	if !ok {
		return true
	}
	return now.Area() > before.Area() || now.W > before.W || now.H > before.H
}

// exceedsCapacity reports whether the subject in proposed leaves fewer cells
// than there are other tiles.
func (s *Session) exceedsCapacity(proposed grid.Layout) bool {
	it, ok := proposed.Find(s.subject)
	if !ok {
		return false
	}
	others := max(0, len(s.streamIDs)-1)
	return it.W*it.H > s.metrics.Capacity()-others
}

func (s *Session) rollback(ctx context.Context) Result {
	s.current = s.lastValid.Clone()
	observability.Engine().OnCommit(ctx, string(s.kind), s.subject, string(RolledBack))
	s.logger.Debug("interaction rolled back", "kind", s.kind, "tile", s.subject)
	s.finish()
	return Result{Outcome: RolledBack, Layout: s.current.Clone()}
}

func (s *Session) finish() {
	s.state = Idle
	s.kind = ""
	s.subject = ""
	s.rejected = false
}

func (s *Session) expect(kind Kind) error {
	if s.state != Interacting {
		return ErrIdle
	}
	if s.kind != kind {
		return ErrWrongKind
	}
	return nil
}

func acceptable(l grid.Layout, ids []string, m grid.Metrics) bool {
	return l.HasIDs(ids) && grid.IsValid(l, m)
}
