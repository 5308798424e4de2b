// Package cli implements the streamwall command-line interface.
//
// Commands are built with cobra. The root command loads the viper
// configuration, then hands a charmbracelet/log logger to every command
// through its context.
//
// # Commands
//
//   - project: create a project file and manage its streams
//   - layout, move, resize, reset: inspect and change the grid
//   - edit: interactive grid editor
//   - watch: follow the project file and reflow on every change
//   - status: poll live status
//   - export: write the layout as SVG, DOT or JSON
//   - serve: run the HTTP API
//   - store: inspect or clear the layout store
//
// All commands accept --verbose (-v) for debug logging and --config to pick
// a config file.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 4 streams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored in ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
