// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package desktop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gpucontext"
)

// waitTimeout bounds each wait for window system events so Next notices a
// done context.
const waitTimeout = 100 * time.Millisecond

var nextID atomic.Uint64

// platform is a connection to the window system that owns one window.
// Every method except wake is called from the goroutine running Next.
type platform interface {
	// size returns the framebuffer size in physical pixels.
	size() (width, height uint32)

	// scale returns the content scale of the window.
	scale() float64

	// handles returns the display (or instance) and window handles.
	handles() (display, window uintptr, err error)

	// dispatch translates pending window system events into calls on s.
	// When block is true and nothing is pending, it waits up to timeout
	// for an event or a wake. An error means the connection is gone.
	dispatch(s sink, block bool, timeout time.Duration) error

	// wake interrupts a blocking dispatch. It is safe from any goroutine.
	wake()

	close()
}

// sink receives translated window system events.
type sink interface {
	resized(width, height uint32)
	rescaled(scale float64, width, height uint32)
	closeRequested()
	key(k gpucontext.Key, pressed bool)
	exposed()
}

// Window is a native window target.
type Window struct {
	id   uint64
	plat platform

	mu            sync.Mutex
	width, height uint32
	factor        float64
	closed        bool
}

// ID returns the window identity.
func (w *Window) ID() uint64 { return w.id }

// Size returns the framebuffer size reported by the last window system
// event.
func (w *Window) Size() (width, height uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Scale returns the content scale.
func (w *Window) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.factor
}

// NativeHandles returns the display and window handles for surface
// creation. It fails with ErrNoHandles once the window is closed.
func (w *Window) NativeHandles() (display, window uintptr, err error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return 0, 0, ErrNoHandles
	}
	return w.plat.handles()
}

func (w *Window) set(width, height uint32, scale float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	if scale > 0 {
		w.factor = scale
	}
}

var _ backend.NativeWindow = (*Window)(nil)

// Driver runs the window system event loop for one window.
type Driver struct {
	window *Window
	plat   platform

	mu      sync.Mutex
	queue   []clearpass.Event
	pending bool
	closed  bool
}

// New connects to the window system and opens a window. It fails with
// ErrUnavailable where this build has no window system support.
func New(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := openPlatform(cfg)
	if err != nil {
		return nil, err
	}
	clearpass.Logger().Debug("desktop: window opened",
		"title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return newDriver(p), nil
}

func newDriver(p platform) *Driver {
	w := &Window{id: nextID.Add(1), plat: p, factor: 1}
	width, height := p.size()
	w.set(width, height, p.scale())
	return &Driver{window: w, plat: p}
}

// Window returns the driver's window.
func (d *Driver) Window() backend.WindowTarget { return d.window }

// RequestRedraw schedules a redraw and wakes the event loop. Requests
// made before the redraw is delivered collapse into one. It may be called
// from any goroutine.
func (d *Driver) RequestRedraw() {
	d.mu.Lock()
	d.pending = true
	closed := d.closed
	d.mu.Unlock()
	if !closed {
		d.plat.wake()
	}
}

// Next returns the next event. Window system events are delivered before
// a pending redraw. Next returns false when ctx is done, after Close, or
// when the window system connection fails.
func (d *Driver) Next(ctx context.Context) (clearpass.Event, bool) {
	for {
		if ctx.Err() != nil || d.isClosed() {
			return clearpass.Event{}, false
		}
		if ev, ok := d.pop(); ok {
			return ev, true
		}
		if err := d.plat.dispatch(d, !d.redrawPending(), waitTimeout); err != nil {
			clearpass.Logger().Warn("desktop: window system connection lost", "err", err)
			return clearpass.Event{}, false
		}
		if ev, ok := d.pop(); ok {
			return ev, true
		}
		if d.takeRedraw() {
			return clearpass.RedrawEvent(d.window.id), true
		}
	}
}

// Close destroys the window and disconnects from the window system. The
// surface must have been released first. Close is idempotent.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.window.mu.Lock()
	d.window.closed = true
	d.window.mu.Unlock()
	d.plat.close()
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) pop() (clearpass.Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return clearpass.Event{}, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

func (d *Driver) redrawPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Driver) takeRedraw() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.pending
	d.pending = false
	return p
}

func (d *Driver) push(ev clearpass.Event) {
	d.mu.Lock()
	d.queue = append(d.queue, ev)
	d.mu.Unlock()
}

func (d *Driver) resized(width, height uint32) {
	if w, h := d.window.Size(); w == width && h == height {
		return
	}
	d.window.set(width, height, 0)
	d.push(clearpass.ResizeEvent(d.window.id, width, height))
}

func (d *Driver) rescaled(scale float64, width, height uint32) {
	d.window.set(width, height, scale)
	d.push(clearpass.ScaleFactorEvent(d.window.id, scale, width, height))
}

func (d *Driver) closeRequested() {
	// The application decides whether to exit.
	d.push(clearpass.CloseEvent(d.window.id))
}

func (d *Driver) key(k gpucontext.Key, pressed bool) {
	d.push(clearpass.KeyEvent(d.window.id, k, pressed))
}

func (d *Driver) exposed() {
	d.mu.Lock()
	d.pending = true
	d.mu.Unlock()
}

var _ clearpass.Driver = (*Driver)(nil)

func clampDim(v int32) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
