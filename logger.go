package picalc

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message
// formatting entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for picalc. By default the package
// produces no log output. Pass nil to restore the silent default.
//
// Log levels used by picalc:
//   - [slog.LevelDebug]: per-block counts, dispatch and buffer sizes
//   - [slog.LevelInfo]: backend lifecycle (adapter selected)
//   - [slog.LevelWarn]: non-fatal issues (software fallback)
//
// Backends created before a SetLogger call keep their old logger; use
// PropagateLogger to update one.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by picalc. Sub-packages and
// backends call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
