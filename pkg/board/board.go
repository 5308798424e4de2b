// Package board manages one stream wall: its container size, stream set,
// manual layouts and the interaction session.
//
// Only structural changes reflow the wall. [Board.Resize] and
// [Board.SetStreams] recompute the layout synchronously:
//
//	metrics ─▶ mode ─▶ manual layout for that mode (migrated once)
//	        ─▶ desktop: merge with manual or build even, repair if invalid
//	        ─▶ mobile:  pack into one column
//
// Live-status changes never touch the board.
//
// Drags and resizes go through [session.Session]; accepted layouts become the
// manual layout of the current mode and are persisted through
// [store.Layouts] without failing the interaction.
package board

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/observability"
	"github.com/matzehuels/streamwall/pkg/session"
	"github.com/matzehuels/streamwall/pkg/store"
)

// Options configures a Board.
type Options struct {
	// ProjectID scopes persisted layouts. Required.
	ProjectID string

	// Params tunes the metrics calculation. The zero value means
	// grid.DefaultParams.
	Params grid.Params

	// Layouts persists manual layouts. Nil disables persistence.
	Layouts *store.Layouts

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Board is a single grid instance. It is not safe for concurrent use.
type Board struct {
	projectID string
	params    grid.Params
	layouts   *store.Layouts
	logger    *log.Logger
	session   *session.Session

	streamIDs     []string
	width, height float64
	sized         bool

	metrics grid.Metrics
	mode    grid.Mode
	manual  grid.Layout
	layout  grid.Layout
}

// View is a read-only snapshot of a board.
type View struct {
	ProjectID string       `json:"project_id"`
	Mode      grid.Mode    `json:"mode"`
	Metrics   grid.Metrics `json:"metrics"`
	Layout    grid.Layout  `json:"layout"`
	Manual    bool         `json:"manual"`
	State     string       `json:"state"`
	Subject   string       `json:"subject,omitempty"`
	Kind      session.Kind `json:"kind,omitempty"`
}

// New creates an empty board. The layout stays empty until the first call
// to Resize.
func New(opts Options) (*Board, error) {
	if err := swerrors.ValidateProjectID(opts.ProjectID); err != nil {
		return nil, err
	}
	if opts.Layouts == nil {
		opts.Layouts = store.NewLayouts(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	b := &Board{
		projectID: opts.ProjectID,
		params:    opts.Params,
		layouts:   opts.Layouts,
		logger:    opts.Logger,
	}
	b.session = session.New(
		session.WithCommitter(session.CommitFunc(b.commit)),
		session.WithLogger(opts.Logger),
	)
	return b, nil
}

// ProjectID returns the project the board belongs to.
func (b *Board) ProjectID() string { return b.projectID }

// Layout returns a copy of the visible layout.
func (b *Board) Layout() grid.Layout { return b.layout.Clone() }

// Metrics returns the current grid metrics.
func (b *Board) Metrics() grid.Metrics { return b.metrics }

// Mode returns the current layout mode, "" before the first recompute.
func (b *Board) Mode() grid.Mode { return b.mode }

// StreamIDs returns a copy of the stream set.
func (b *Board) StreamIDs() []string { return append([]string(nil), b.streamIDs...) }

// HasManual reports whether the current mode has a manual layout.
func (b *Board) HasManual() bool { return len(b.manual) > 0 }

// State returns the interaction state.
func (b *Board) State() session.State { return b.session.State() }

// View returns a snapshot of the board.
func (b *Board) View() View {
	return View{
		ProjectID: b.projectID,
		Mode:      b.mode,
		Metrics:   b.metrics,
		Layout:    b.Layout(),
		Manual:    b.HasManual(),
		State:     b.session.State().String(),
		Subject:   b.session.Subject(),
		Kind:      b.session.Kind(),
	}
}

// Resize sets the container size in pixels and recomputes the layout.
func (b *Board) Resize(ctx context.Context, width, height float64) error {
	if err := swerrors.ValidateDimensions(width, height); err != nil {
		return err
	}
	b.width, b.height = width, height
	b.sized = true
	b.recompute(ctx)
	return nil
}

// SetStreams replaces the ordered stream set and recomputes the layout.
// Duplicate IDs are ignored.
func (b *Board) SetStreams(ctx context.Context, ids []string) error {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := swerrors.ValidateStreamID(id); err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	b.streamIDs = out
	b.recompute(ctx)
	return nil
}

// Reset discards the manual layout of the current mode and recomputes.
func (b *Board) Reset(ctx context.Context) error {
	if b.session.State() != session.Idle {
		return session.ErrBusy
	}
	if b.mode != "" {
		if err := b.layouts.Delete(ctx, b.projectID, b.mode); err != nil {
			b.logger.Debug("reset: delete failed", "err", err)
		}
	}
	b.manual = nil
	b.recompute(ctx)
	return nil
}

// recompute derives metrics and the visible layout from the container size,
// the stream set and the manual layout. A running interaction is cancelled
// first. Nothing happens before the first Resize.
func (b *Board) recompute(ctx context.Context) {
	if !b.sized {
		return
	}
	if b.session.State() != session.Idle {
		b.session.Cancel(ctx)
	}
	start := time.Now()
	ids := b.streamIDs

	m := b.params.Compute(b.width, b.height, len(ids))
	if mode := m.Mode(); mode != b.mode {
		b.manual, _ = b.layouts.Migrate(ctx, b.projectID, mode)
		b.mode = mode
	}

	var l grid.Layout
	switch {
	case m.IsMobile:
		base := b.manual
		if base == nil {
			base = b.layout
		}
		l = grid.PackMobile(base, ids)
	case b.manual != nil:
		l = b.repair(ctx, grid.BuildPreservingManual(ids, b.manual, nil, m), ids, m)
	default:
		l = b.repair(ctx, grid.BuildEven(ids, m), ids, m)
	}

	b.metrics = m
	b.layout = l
	_ = b.session.Sync(l, ids, m)

	elapsed := time.Since(start)
	observability.Engine().OnRecompute(ctx, string(b.mode), len(ids), elapsed)
	b.logger.Debug("recomputed layout",
		"mode", b.mode,
		"cols", m.Cols,
		"rows", m.Rows,
		"tiles", len(l),
		"manual", b.manual != nil,
		"duration", elapsed)
}

// repair returns l unchanged when valid, otherwise the repaired layout.
func (b *Board) repair(ctx context.Context, l grid.Layout, ids []string, m grid.Metrics) grid.Layout {
	if grid.IsValid(l, m) {
		return l
	}
	start := time.Now()
	res := grid.Repair(l, ids, m, "")
	observability.Engine().OnRepair(ctx, len(ids), res.Iterations, res.Valid, time.Since(start))
	if !res.Valid {
		b.logger.Warn("layout still invalid after repair", "tiles", len(ids), "cells", m.Capacity())
	}
	return res.Layout
}

// commit records an accepted interaction as the manual layout of the current
// mode and persists it.
func (b *Board) commit(ctx context.Context, l grid.Layout) error {
	b.manual = l.Clone()
	return b.layouts.Save(ctx, b.projectID, b.mode, l)
}
