// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/clearpass/gpu"
	"github.com/gogpu/clearpass/render"
	"github.com/gogpu/clearpass/surface"
	"github.com/gogpu/gpucontext"
)

// App is the application root. It owns the GPU context, the surface state
// and the renderer of one window, and receives that window's events through
// Dispatch. It is not safe for concurrent use.
type App struct {
	window   backend.WindowTarget
	gc       *gpu.Context
	st       *surface.State
	renderer *render.Renderer
	opts     appOptions

	terminated bool
	err        error
	closed     bool

	// retry is set when the last dispatched event failed with an error
	// the next frame is expected to clear.
	retry bool
}

// NewApp negotiates a GPU context on b for window and configures its
// surface at the window's current physical size.
//
// NewApp blocks until negotiation finishes or ctx is done. Adapter and
// device failures are fatal (see gpu.IsFatal).
func NewApp(ctx context.Context, b backend.Backend, window backend.WindowTarget, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	gc, err := gpu.Create(ctx, b, window, gpu.WithPowerPreference(o.power))
	if err != nil {
		return nil, err
	}

	w, h := window.Size()
	st, err := surface.Initialize(gc, window, surface.Size{Width: w, Height: h},
		surface.WithPresentMode(o.presentMode))
	if err != nil {
		gc.Release()
		return nil, err
	}

	Logger().Info("clearpass: app ready",
		"adapter", gc.AdapterInfo().String(),
		"size", st.Size(),
		"format", st.Config().Format)

	return &App{
		window:   window,
		gc:       gc,
		st:       st,
		renderer: render.New(render.WithClearColor(o.clear.GPU())),
		opts:     o,
	}, nil
}

// Window returns the window the app renders to.
func (a *App) Window() backend.WindowTarget { return a.window }

// GPU returns the GPU context.
func (a *App) GPU() *gpu.Context { return a.gc }

// Surface returns the surface state.
func (a *App) Surface() *surface.State { return a.st }

// Renderer returns the frame renderer.
func (a *App) Renderer() *render.Renderer { return a.renderer }

// DeviceProvider exposes the device for gpucontext integrations.
func (a *App) DeviceProvider() gpucontext.DeviceProvider {
	return a.gc.DeviceProvider(a.st.Config().Format)
}

// NeedsRedraw reports whether the last dispatched event ended in a
// recoverable failure, so another redraw is due even in on-demand mode.
func (a *App) NeedsRedraw() bool { return a.retry }

// Terminated reports whether a Terminate decision was made.
func (a *App) Terminated() bool { return a.terminated }

// Err returns the error that terminated the app: nil after a close request,
// an ErrOutOfMemory wrapper after GPU memory exhaustion, or the frame error.
func (a *App) Err() error { return a.err }

// Close releases the surface and then the GPU context. The window must
// still be alive. Close is idempotent.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.terminated = true
	a.st.Release()
	a.gc.Release()
}

// Dispatch handles one event and returns the resulting decision.
//
// Events addressed to another window are ignored. After a Terminate
// decision every call returns Terminate without doing any work.
func (a *App) Dispatch(ev Event) Decision {
	if a.terminated {
		return Terminate
	}
	a.retry = false
	if ev.Window != a.st.TargetID() {
		return Continue
	}
	if a.opts.input != nil && a.opts.input(a, ev) {
		return Continue
	}

	switch ev.Kind {
	case EventResize, EventScaleFactorChanged:
		return a.resize(surface.Size{Width: ev.Width, Height: ev.Height})
	case EventCloseRequested:
		return a.terminate(nil)
	case EventKey:
		if ev.Pressed && ev.Key == gpucontext.KeyEscape {
			return a.terminate(nil)
		}
	case EventRedraw:
		return a.redraw()
	}
	return Continue
}

func (a *App) resize(size surface.Size) Decision {
	applied, err := a.st.Reconfigure(size)
	if err != nil {
		return a.reconfigureFailed(err)
	}
	if !applied {
		return Continue
	}
	return Reconfigure
}

func (a *App) redraw() Decision {
	// A failed reconfigure leaves the surface unconfigured at a valid
	// size. Try again before rendering.
	if !a.st.Configured() && a.st.Size().Valid() {
		if _, err := a.st.Reconfigure(a.st.Size()); err != nil {
			return a.reconfigureFailed(err)
		}
	}

	err := a.renderer.RenderFrame(a.gc, a.st)
	if a.opts.update != nil {
		a.opts.update(a)
	}

	outcome := render.Classify(err)
	d := Decide(outcome, a.opts.transient)
	log := Logger()

	switch outcome {
	case render.Success:
		return d
	case render.Lost:
		log.Warn("clearpass: surface lost, reconfiguring", "size", a.st.Size(), "err", err)
		if _, err := a.st.Reconfigure(a.st.Size()); err != nil {
			return a.reconfigureFailed(err)
		}
		return d
	case render.OutOfMemory:
		return a.terminate(fmt.Errorf("%w: %w", ErrOutOfMemory, err))
	}

	if d == Terminate {
		return a.terminate(err)
	}
	log.Warn("clearpass: transient frame error, retrying", "outcome", outcome, "err", err)
	// Without a valid size only a resize can make progress.
	a.retry = a.st.Size().Valid()
	return d
}

// reconfigureFailed handles a backend error from Reconfigure with the same
// rules as a frame error.
func (a *App) reconfigureFailed(err error) Decision {
	switch render.Classify(err) {
	case render.OutOfMemory:
		return a.terminate(fmt.Errorf("%w: %w", ErrOutOfMemory, err))
	case render.Fatal:
		return a.terminate(err)
	}
	Logger().Warn("clearpass: reconfigure failed", "size", a.st.Size(), "err", err)
	a.retry = true
	return Continue
}

func (a *App) terminate(err error) Decision {
	a.terminated = true
	a.err = err
	switch {
	case err == nil:
		Logger().Debug("clearpass: close requested")
	case errors.Is(err, ErrOutOfMemory):
		// Silent: the process exits without a message.
		Logger().Debug("clearpass: out of GPU memory", "err", err)
	default:
		Logger().Error("clearpass: terminating", "err", err)
	}
	return Terminate
}
