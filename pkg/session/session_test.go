package session

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/observability"
)

var (
	square = grid.Metrics{Cols: 4, Rows: 4}
	abc    = []string{"a", "b", "c"}
)

func baseLayout() grid.Layout {
	return grid.Layout{
		{ID: "a", W: 2, H: 2},
		{ID: "b", X: 2, W: 2, H: 2},
		{ID: "c", Y: 2, W: 2, H: 2},
	}
}

// recorder captures committed layouts.
type recorder struct {
	commits []grid.Layout
	err     error
}

func (r *recorder) Commit(_ context.Context, l grid.Layout) error {
	r.commits = append(r.commits, l.Clone())
	return r.err
}

func newSession(t *testing.T, rec *recorder) *Session {
	t.Helper()
	s := New(WithCommitter(rec))
	if err := s.Sync(baseLayout(), abc, square); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	return s
}

func with(l grid.Layout, it grid.Item) grid.Layout {
	out := l.Clone()
	for i := range out {
		if out[i].ID == it.ID {
			out[i] = it
		}
	}
	return out
}

func TestBegin(t *testing.T) {
	s := newSession(t, &recorder{})

	if err := s.Begin("spin", "a"); err == nil {
		t.Error("Begin() with unknown kind should fail")
	}
	if err := s.Begin(KindDrag, "zzz"); !errors.Is(err, ErrUnknownTile) {
		t.Errorf("Begin(unknown tile) error = %v, want ErrUnknownTile", err)
	}
	if err := s.Begin(KindDrag, "a"); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if s.State() != Interacting || s.Subject() != "a" || s.Kind() != KindDrag {
		t.Errorf("after Begin: state=%v subject=%q kind=%q", s.State(), s.Subject(), s.Kind())
	}
	if err := s.Begin(KindResize, "b"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Begin() error = %v, want ErrBusy", err)
	}
	if err := s.Sync(nil, nil, square); !errors.Is(err, ErrBusy) {
		t.Errorf("Sync() while interacting error = %v, want ErrBusy", err)
	}
	if !s.LastValid().Equivalent(baseLayout()) {
		t.Errorf("LastValid() = %+v, want snapshot of base layout", s.LastValid())
	}
}

func TestUpdatesRequireMatchingInteraction(t *testing.T) {
	s := newSession(t, &recorder{})

	if err := s.Drag(baseLayout()); !errors.Is(err, ErrIdle) {
		t.Errorf("Drag() while idle error = %v, want ErrIdle", err)
	}
	if _, err := s.Stop(context.Background(), baseLayout()); !errors.Is(err, ErrIdle) {
		t.Errorf("Stop() while idle error = %v, want ErrIdle", err)
	}

	_ = s.Begin(KindDrag, "a")
	if _, err := s.Resize(baseLayout()); !errors.Is(err, ErrWrongKind) {
		t.Errorf("Resize() during drag error = %v, want ErrWrongKind", err)
	}
}

func TestDragCommitsValidProposal(t *testing.T) {
	rec := &recorder{}
	s := newSession(t, rec)
	ctx := context.Background()

	_ = s.Begin(KindDrag, "b")
	moved := with(baseLayout(), grid.Item{ID: "b", X: 2, Y: 2, W: 2, H: 2})
	if err := s.Drag(moved); err != nil {
		t.Fatalf("Drag() error: %v", err)
	}
	if !s.Layout().Equivalent(moved) {
		t.Errorf("Layout() during drag = %+v, want proposal", s.Layout())
	}

	res, err := s.Stop(ctx, moved)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if res.Outcome != Committed || res.Repaired {
		t.Errorf("Stop() = %+v, want unrepaired commit", res)
	}
	if len(rec.commits) != 1 || !rec.commits[0].Equivalent(moved) {
		t.Errorf("commits = %+v, want one commit of the proposal", rec.commits)
	}
	if s.State() != Idle || !s.LastValid().Equivalent(moved) {
		t.Errorf("after Stop: state=%v lastValid=%+v", s.State(), s.LastValid())
	}
}

func TestDragRepairsOverlap(t *testing.T) {
	rec := &recorder{}
	s := newSession(t, rec)

	two := baseLayout()[:2]
	if err := s.Sync(two, []string{"a", "b"}, square); err != nil {
		t.Fatal(err)
	}
	_ = s.Begin(KindDrag, "b")
	res, err := s.Stop(context.Background(), with(two, grid.Item{ID: "b", X: 1, W: 2, H: 2}))
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if res.Outcome != Committed || !res.Repaired {
		t.Fatalf("Stop() = %+v, want repaired commit", res)
	}
	if b, _ := res.Layout.Find("b"); b != (grid.Item{ID: "b", X: 1, W: 2, H: 2}) {
		t.Errorf("dragged b = %+v, want kept at (1,0)", b)
	}
	if a, _ := res.Layout.Find("a"); a != (grid.Item{ID: "a", Y: 2, W: 2, H: 2}) {
		t.Errorf("a = %+v, want moved to (0,2)", a)
	}
}

func TestDragRestoresMissingTiles(t *testing.T) {
	s := newSession(t, &recorder{})
	_ = s.Begin(KindDrag, "a")

	res, err := s.Stop(context.Background(), baseLayout()[:2])
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if res.Outcome != Committed || !res.Layout.HasIDs(abc) {
		t.Errorf("Stop() = %+v, want commit holding %v", res, abc)
	}
}

func TestResizeGrowReflows(t *testing.T) {
	rec := &recorder{}
	s := newSession(t, rec)
	ctx := context.Background()

	_ = s.Begin(KindResize, "a")
	grown := with(baseLayout(), grid.Item{ID: "a", W: 3, H: 2})
	if rejected, err := s.Resize(grown); err != nil || rejected {
		t.Fatalf("Resize() = %v, %v, want accepted", rejected, err)
	}

	res, err := s.Stop(ctx, grown)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if res.Outcome != Committed || !res.Repaired {
		t.Fatalf("Stop() = %+v, want reflowed commit", res)
	}
	want := map[string]grid.Item{
		"a": {ID: "a", W: 3, H: 2},
		"b": {ID: "b", X: 3, W: 1, H: 2},
		"c": {ID: "c", Y: 2, W: 2, H: 2},
	}
	for _, it := range res.Layout {
		if it != want[it.ID] {
			t.Errorf("%s = %+v, want %+v", it.ID, it, want[it.ID])
		}
	}
}

func TestResizeShrink(t *testing.T) {
	ctx := context.Background()

	t.Run("valid shrink commits", func(t *testing.T) {
		s := newSession(t, &recorder{})
		_ = s.Begin(KindResize, "a")
		shrunk := with(baseLayout(), grid.Item{ID: "a", W: 1, H: 1})
		res, err := s.Stop(ctx, shrunk)
		if err != nil || res.Outcome != Committed {
			t.Fatalf("Stop() = %+v, %v, want commit", res, err)
		}
		if a, _ := res.Layout.Find("a"); a.Area() != 1 {
			t.Errorf("a = %+v, want 1x1", a)
		}
	})

	t.Run("invalid shrink rolls back", func(t *testing.T) {
		rec := &recorder{}
		s := newSession(t, rec)
		_ = s.Begin(KindResize, "a")
		bad := with(baseLayout(), grid.Item{ID: "a", W: 1, H: 1})
		bad = with(bad, grid.Item{ID: "b", Y: 2, W: 2, H: 2})
		res, err := s.Stop(ctx, bad)
		if err != nil {
			t.Fatalf("Stop() error: %v", err)
		}
		if res.Outcome != RolledBack || !res.Layout.Equivalent(baseLayout()) {
			t.Errorf("Stop() = %+v, want rollback to base layout", res)
		}
		if len(rec.commits) != 0 {
			t.Errorf("rolled back interaction committed %d layouts", len(rec.commits))
		}
	})
}

func TestResizeRejectedWhenOthersCannotFit(t *testing.T) {
	rec := &recorder{}
	s := New(WithCommitter(rec))
	two := grid.Layout{
		{ID: "a", W: 2, H: 2},
		{ID: "b", X: 2, W: 2, H: 2},
	}
	_ = s.Sync(two, []string{"a", "b"}, square)
	ctx := context.Background()

	_ = s.Begin(KindResize, "a")
	huge := with(two, grid.Item{ID: "a", W: 4, H: 4})
	rejected, err := s.Resize(huge)
	if err != nil || !rejected {
		t.Fatalf("Resize(4x4) = %v, %v, want rejected", rejected, err)
	}
	if s.State() != Interacting {
		t.Errorf("state after rejection = %v, want interacting", s.State())
	}
	if !s.Layout().Equivalent(two) {
		t.Errorf("Layout() after rejection = %+v, want snapshot", s.Layout())
	}

	// Rejection sticks until the gesture ends.
	if rejected, _ := s.Resize(two); !rejected {
		t.Error("Resize() after rejection should stay rejected")
	}

	res, err := s.Stop(ctx, huge)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if res.Outcome != RolledBack {
		t.Errorf("Stop() outcome = %v, want rolled back", res.Outcome)
	}
	if a, _ := res.Layout.Find("a"); a.W != 2 || a.H != 2 {
		t.Errorf("a = %+v, want 2x2", a)
	}
	if s.State() != Idle || s.Rejected() {
		t.Errorf("after Stop: state=%v rejected=%v", s.State(), s.Rejected())
	}
	if len(rec.commits) != 0 {
		t.Errorf("rejected resize committed %d layouts", len(rec.commits))
	}
}

func TestCancel(t *testing.T) {
	s := newSession(t, &recorder{})
	ctx := context.Background()

	if res := s.Cancel(ctx); res.Outcome != RolledBack || s.State() != Idle {
		t.Errorf("Cancel() while idle = %+v", res)
	}

	_ = s.Begin(KindDrag, "a")
	_ = s.Drag(with(baseLayout(), grid.Item{ID: "a", X: 2, Y: 2, W: 2, H: 2}))
	res := s.Cancel(ctx)
	if res.Outcome != RolledBack || !res.Layout.Equivalent(baseLayout()) {
		t.Errorf("Cancel() = %+v, want rollback to base layout", res)
	}
	if s.State() != Idle {
		t.Errorf("state after Cancel = %v, want idle", s.State())
	}
}

func TestCommitErrorIsIgnored(t *testing.T) {
	rec := &recorder{err: errors.New("quota exceeded")}
	s := newSession(t, rec)

	_ = s.Begin(KindDrag, "a")
	res, err := s.Stop(context.Background(), baseLayout())
	if err != nil || res.Outcome != Committed {
		t.Errorf("Stop() = %+v, %v, want commit despite persist failure", res, err)
	}
	if len(rec.commits) != 1 {
		t.Errorf("commits = %d, want 1", len(rec.commits))
	}
}

type commitHooks struct {
	observability.NoopEngineHooks
	outcomes []string
}

func (h *commitHooks) OnCommit(_ context.Context, _, _, outcome string) {
	h.outcomes = append(h.outcomes, outcome)
}

func TestCommitHooks(t *testing.T) {
	hooks := &commitHooks{}
	observability.SetEngineHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newSession(t, &recorder{})
	ctx := context.Background()

	_ = s.Begin(KindDrag, "a")
	_, _ = s.Stop(ctx, baseLayout())
	_ = s.Begin(KindDrag, "a")
	s.Cancel(ctx)

	want := []string{string(Committed), string(RolledBack)}
	if len(hooks.outcomes) != 2 || hooks.outcomes[0] != want[0] || hooks.outcomes[1] != want[1] {
		t.Errorf("outcomes = %v, want %v", hooks.outcomes, want)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Idle, "idle"},
		{Interacting, "interacting"},
		{Committing, "committing"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
