package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ EngineHooks = LogHooks{}
	_ StoreHooks  = LogHooks{}
	_ PollHooks   = LogHooks{}
)

// UseLogger registers [LogHooks] for all event kinds.
func UseLogger(l *log.Logger) {
	if l == nil {
		return
	}
	h := LogHooks{Logger: l.WithPrefix("obs")}
	SetEngineHooks(h)
	SetStoreHooks(h)
	SetPollHooks(h)
}

func (h LogHooks) OnRecompute(_ context.Context, mode string, tiles int, d time.Duration) {
	h.Logger.Debug("recompute", "mode", mode, "tiles", tiles, "took", d)
}

func (h LogHooks) OnRepair(_ context.Context, tiles, iterations int, valid bool, d time.Duration) {
	h.Logger.Debug("repair", "tiles", tiles, "iterations", iterations, "valid", valid, "took", d)
}

func (h LogHooks) OnCommit(_ context.Context, kind, tileID, outcome string) {
	h.Logger.Debug("interaction", "kind", kind, "tile", tileID, "outcome", outcome)
}

func (h LogHooks) OnStoreHit(_ context.Context, keyType string) {
	h.Logger.Debug("store hit", "type", keyType)
}

func (h LogHooks) OnStoreMiss(_ context.Context, keyType string) {
	h.Logger.Debug("store miss", "type", keyType)
}

func (h LogHooks) OnStoreSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("store set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnStoreError(_ context.Context, keyType string, err error) {
	h.Logger.Debug("store error", "type", keyType, "err", err)
}

func (h LogHooks) OnPollStart(_ context.Context, sources int) {
	h.Logger.Debug("poll start", "sources", sources)
}

func (h LogHooks) OnPollComplete(_ context.Context, sources, live int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("poll failed", "sources", sources, "took", d, "err", err)
		return
	}
	h.Logger.Debug("poll done", "sources", sources, "live", live, "took", d)
}
