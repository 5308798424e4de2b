package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/observability"
)

// SchemaVersion is the version written into layout blobs.
const SchemaVersion = 1

const layoutKeyType = "layout"

// layoutBlob is the persisted form of a manual layout.
type layoutBlob struct {
	Version int         `json:"version"`
	Items   grid.Layout `json:"items"`
}

// LayoutKey returns the storage key of a project's manual layout in mode.
func LayoutKey(projectID string, mode grid.Mode) string {
	return projectID + "_" + string(mode)
}

// LegacyLayoutKey returns the key used before layouts were split by mode.
func LegacyLayoutKey(projectID string) string {
	return projectID
}

// EncodeLayout serializes l as a versioned blob.
func EncodeLayout(l grid.Layout) ([]byte, error) {
	if l == nil {
		l = grid.Layout{}
	}
	return json.Marshal(layoutBlob{Version: SchemaVersion, Items: l})
}

// DecodeLayout parses a versioned blob or a legacy bare array. It reports
// false for malformed or empty data, unknown versions and items without an
// ID.
func DecodeLayout(data []byte) (grid.Layout, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	var items grid.Layout
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, false
		}
	} else {
		var blob layoutBlob
		if err := json.Unmarshal(data, &blob); err != nil {
			return nil, false
		}
		if blob.Version < 1 || blob.Version > SchemaVersion {
			return nil, false
		}
		items = blob.Items
	}

	if len(items) == 0 {
		return nil, false
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, false
		}
	}
	return items, true
}

// Layouts is the manual-layout repository. Reads never fail: storage
// errors and malformed blobs are logged and reported as "no layout".
type Layouts struct {
	store  Store
	logger *log.Logger
}

// NewLayouts creates a repository over s. A nil store disables persistence
// and a nil logger discards output.
func NewLayouts(s Store, logger *log.Logger) *Layouts {
	if s == nil {
		s = NewNullStore()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Layouts{store: s, logger: logger}
}

// Load returns the manual layout of projectID in mode.
func (r *Layouts) Load(ctx context.Context, projectID string, mode grid.Mode) (grid.Layout, bool) {
	return r.load(ctx, LayoutKey(projectID, mode))
}

// Migrate returns the manual layout of projectID in mode, first moving a
// legacy unscoped layout to the mode-scoped key when the scoped key is
// empty. The legacy key is removed after a successful copy.
func (r *Layouts) Migrate(ctx context.Context, projectID string, mode grid.Mode) (grid.Layout, bool) {
	key := LayoutKey(projectID, mode)
	if l, ok := r.load(ctx, key); ok {
		return l, true
	}

	legacy := LegacyLayoutKey(projectID)
	l, ok := r.load(ctx, legacy)
	if !ok {
		return nil, false
	}

	if err := r.write(ctx, key, l); err != nil {
		// The copy failed; keep the legacy key so a later start can retry.
		return l, true
	}
	if err := r.store.Delete(ctx, legacy); err != nil {
		r.fail(ctx, "delete legacy layout", legacy, err)
	}
	r.logger.Info("migrated legacy layout", "project", projectID, "mode", mode, "tiles", len(l))
	return l, true
}

// Save stores l as the manual layout of projectID in mode. Saving an empty
// layout deletes the key. Errors are logged and also returned.
func (r *Layouts) Save(ctx context.Context, projectID string, mode grid.Mode, l grid.Layout) error {
	if err := swerrors.ValidateProjectID(projectID); err != nil {
		return err
	}
	if !mode.Valid() {
		return swerrors.New(swerrors.ErrCodeInvalidInput, "unknown layout mode %q", mode)
	}
	key := LayoutKey(projectID, mode)
	if len(l) == 0 {
		return r.Delete(ctx, projectID, mode)
	}
	return r.write(ctx, key, l)
}

// Delete removes the manual layout of projectID in mode.
func (r *Layouts) Delete(ctx context.Context, projectID string, mode grid.Mode) error {
	key := LayoutKey(projectID, mode)
	if err := r.store.Delete(ctx, key); err != nil {
		r.fail(ctx, "delete layout", key, err)
		return err
	}
	r.logger.Debug("deleted layout", "key", key)
	return nil
}

// Committer returns a commit target bound to projectID and mode, suitable
// for an interaction session.
func (r *Layouts) Committer(projectID string, mode grid.Mode) CommitFunc {
	return func(ctx context.Context, l grid.Layout) error {
		return r.Save(ctx, projectID, mode, l)
	}
}

// CommitFunc persists an accepted layout.
type CommitFunc func(ctx context.Context, l grid.Layout) error

// Commit calls f.
func (f CommitFunc) Commit(ctx context.Context, l grid.Layout) error { return f(ctx, l) }

func (r *Layouts) load(ctx context.Context, key string) (grid.Layout, bool) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.fail(ctx, "load layout", key, err)
		return nil, false
	}
	if !ok {
		observability.Store().OnStoreMiss(ctx, layoutKeyType)
		return nil, false
	}
	l, ok := DecodeLayout(data)
	if !ok {
		r.logger.Warn("ignoring malformed layout", "key", key, "bytes", len(data))
		observability.Store().OnStoreMiss(ctx, layoutKeyType)
		return nil, false
	}
	observability.Store().OnStoreHit(ctx, layoutKeyType)
	return l, true
}

func (r *Layouts) write(ctx context.Context, key string, l grid.Layout) error {
	data, err := EncodeLayout(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := r.store.Set(ctx, key, data, 0); err != nil {
		r.fail(ctx, "save layout", key, err)
		return err
	}
	observability.Store().OnStoreSet(ctx, layoutKeyType, len(data))
	r.logger.Debug("saved layout", "key", key, "tiles", len(l))
	return nil
}

func (r *Layouts) fail(ctx context.Context, op, key string, err error) {
	observability.Store().OnStoreError(ctx, layoutKeyType, err)
	r.logger.Warn(op+" failed", "key", key, "err", err)
}
