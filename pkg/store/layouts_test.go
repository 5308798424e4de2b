package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/streamwall/pkg/grid"
)

var sample = grid.Layout{
	{ID: "twitch:shroud", W: 2, H: 2},
	{ID: "youtube:@lofigirl", X: 2, W: 1, H: 1},
}

func TestLayoutKey(t *testing.T) {
	if got := LayoutKey("p1", grid.ModeDesktop); got != "p1_desktop" {
		t.Errorf("LayoutKey() = %q, want p1_desktop", got)
	}
	if got := LayoutKey("p1", grid.ModeMobile); got != "p1_mobile" {
		t.Errorf("LayoutKey() = %q, want p1_mobile", got)
	}
	if got := LegacyLayoutKey("p1"); got != "p1" {
		t.Errorf("LegacyLayoutKey() = %q, want p1", got)
	}
}

func TestDecodeLayout(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		wantOK bool
		wantN  int
	}{
		{"versioned", `{"version":1,"items":[{"id":"a","x":0,"y":0,"w":1,"h":1}]}`, true, 1},
		{"legacy array", `[{"id":"a","x":0,"y":0,"w":2,"h":2},{"id":"b","x":2,"y":0,"w":1,"h":1}]`, true, 2},
		{"padded", "  \n[{\"id\":\"a\",\"w\":1,\"h\":1}]\n", true, 1},
		{"empty", ``, false, 0},
		{"empty items", `{"version":1,"items":[]}`, false, 0},
		{"future version", `{"version":2,"items":[{"id":"a","w":1,"h":1}]}`, false, 0},
		{"no version", `{"items":[{"id":"a","w":1,"h":1}]}`, false, 0},
		{"missing id", `[{"x":0,"y":0,"w":1,"h":1}]`, false, 0},
		{"garbage", `not json`, false, 0},
		{"wrong shape", `{"version":1,"items":{"a":1}}`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeLayout([]byte(tt.data))
			if ok != tt.wantOK || len(got) != tt.wantN {
				t.Errorf("DecodeLayout() = %d items, %v, want %d, %v", len(got), ok, tt.wantN, tt.wantOK)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	data, err := EncodeLayout(grid.Layout{{ID: "a", X: 1, Y: 2, W: 3, H: 4}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"version":1,"items":[{"id":"a","x":1,"y":2,"w":3,"h":4}]}`
	if string(data) != want {
		t.Errorf("EncodeLayout() = %s, want %s", data, want)
	}
}

func TestLayoutsSaveLoad(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	r := NewLayouts(mem, nil)

	if _, ok := r.Load(ctx, "p1", grid.ModeDesktop); ok {
		t.Fatal("Load() on empty store should report absent")
	}
	if err := r.Save(ctx, "p1", grid.ModeDesktop, sample); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, ok := r.Load(ctx, "p1", grid.ModeDesktop)
	if !ok || !got.Equivalent(sample) {
		t.Errorf("Load() = %+v, %v, want %+v", got, ok, sample)
	}
	if _, ok := r.Load(ctx, "p1", grid.ModeMobile); ok {
		t.Error("modes must not share a layout")
	}

	if err := r.Save(ctx, "p1", grid.ModeDesktop, nil); err != nil {
		t.Fatalf("Save(empty) error: %v", err)
	}
	if keys := mem.Keys(); len(keys) != 0 {
		t.Errorf("empty save left keys %v", keys)
	}
}

func TestLayoutsSaveValidates(t *testing.T) {
	r := NewLayouts(NewMemoryStore(), nil)
	ctx := context.Background()
	if err := r.Save(ctx, "../etc", grid.ModeDesktop, sample); err == nil {
		t.Error("Save() with traversal project id should fail")
	}
	if err := r.Save(ctx, "p1", grid.Mode("tablet"), sample); err == nil {
		t.Error("Save() with unknown mode should fail")
	}
}

func TestLayoutsMalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	_ = mem.Set(ctx, "p1_desktop", []byte(`{"version":1,"items":[{"w":1}]}`), 0)

	if _, ok := NewLayouts(mem, nil).Load(ctx, "p1", grid.ModeDesktop); ok {
		t.Error("malformed layout should read as absent")
	}
}

func TestLayoutsMigrate(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	legacy := `[{"id":"twitch:shroud","x":0,"y":0,"w":2,"h":2}]`
	_ = mem.Set(ctx, "p1", []byte(legacy), 0)
	r := NewLayouts(mem, nil)

	got, ok := r.Migrate(ctx, "p1", grid.ModeDesktop)
	if !ok || len(got) != 1 || got[0].ID != "twitch:shroud" {
		t.Fatalf("Migrate() = %+v, %v, want legacy layout", got, ok)
	}
	if keys := mem.Keys(); len(keys) != 1 || keys[0] != "p1_desktop" {
		t.Errorf("keys after Migrate = %v, want [p1_desktop]", keys)
	}

	data, _, _ := mem.Get(ctx, "p1_desktop")
	if l, ok := DecodeLayout(data); !ok || !l.Equivalent(got) {
		t.Errorf("migrated blob = %s, want versioned copy", data)
	}

	// Migration runs once; the other mode starts empty.
	if _, ok := r.Migrate(ctx, "p1", grid.ModeMobile); ok {
		t.Error("second mode should find no legacy layout")
	}
}

func TestLayoutsMigratePrefersScoped(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	r := NewLayouts(mem, nil)
	_ = r.Save(ctx, "p1", grid.ModeDesktop, sample)
	_ = mem.Set(ctx, "p1", []byte(`[{"id":"old","w":1,"h":1}]`), 0)

	got, ok := r.Migrate(ctx, "p1", grid.ModeDesktop)
	if !ok || !got.Equivalent(sample) {
		t.Errorf("Migrate() = %+v, want scoped layout", got)
	}
	if _, ok, _ := mem.Get(ctx, "p1"); !ok {
		t.Error("legacy key must stay when a scoped layout exists")
	}
}

// failingStore fails every operation.
type failingStore struct{}

var errDown = errors.New("backend down")

func (failingStore) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, errDown }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (failingStore) Delete(context.Context, string) error                     { return errDown }
func (failingStore) Close() error                                             { return nil }

func TestLayoutsSwallowReadErrors(t *testing.T) {
	ctx := context.Background()
	r := NewLayouts(failingStore{}, nil)

	if _, ok := r.Load(ctx, "p1", grid.ModeDesktop); ok {
		t.Error("Load() with failing store should report absent")
	}
	if _, ok := r.Migrate(ctx, "p1", grid.ModeDesktop); ok {
		t.Error("Migrate() with failing store should report absent")
	}
	if err := r.Save(ctx, "p1", grid.ModeDesktop, sample); !errors.Is(err, errDown) {
		t.Errorf("Save() error = %v, want backend error", err)
	}
}

func TestLayoutsCommitter(t *testing.T) {
	ctx := context.Background()
	r := NewLayouts(NewMemoryStore(), nil)
	commit := r.Committer("p1", grid.ModeMobile)

	if err := commit.Commit(ctx, sample); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Load(ctx, "p1", grid.ModeMobile); !ok {
		t.Error("committed layout not stored")
	}
}
