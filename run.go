// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"context"

	"github.com/gogpu/clearpass/backend"
)

// Driver delivers window events. It owns the platform event loop and the
// window. Implementations live in window/headless and window/desktop.
type Driver interface {
	// Window returns the window events are delivered for.
	Window() backend.WindowTarget

	// Next blocks until the next event is available. It returns false
	// when the event source is exhausted or ctx is done.
	Next(ctx context.Context) (Event, bool)

	// RequestRedraw schedules a redraw event for the window.
	RequestRedraw()
}

// Run drives app with events from driver until a Terminate decision, until
// ctx is done, or until the driver runs out of events.
//
// Run returns nil after a close request (or when the driver is exhausted),
// an error wrapping ErrOutOfMemory when the GPU ran out of memory, the
// frame error for other terminal frame errors, and ctx.Err() when ctx is
// done first.
func Run(ctx context.Context, app *App, driver Driver) error {
	if app.closed {
		return ErrClosed
	}
	log := Logger()
	driver.RequestRedraw()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, ok := driver.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Debug("clearpass: driver exhausted")
			return app.Err()
		}

		switch app.Dispatch(ev) {
		case Terminate:
			return app.Err()
		case Reconfigure:
			// A new size needs a new frame even in on-demand mode.
			driver.RequestRedraw()
		case Continue:
			if app.NeedsRedraw() || (ev.Kind == EventRedraw && app.opts.continuous) {
				driver.RequestRedraw()
			}
		}
	}
}
