// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/clearpass/backend"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for clearpass and all its sub-packages.
// By default, clearpass produces no log output.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by clearpass:
//   - [slog.LevelDebug]: per-frame stages, reconfigure sizes
//   - [slog.LevelInfo]: adapter selected, surface configured
//   - [slog.LevelWarn]: transient frame errors, surface loss
//   - [slog.LevelError]: terminal frame errors
//
// Example:
//
//	clearpass.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	backend.SetLogger(l)
}

// Logger returns the current logger used by clearpass.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
