// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless provides a window and event loop driver that need no
// display. It pairs with the software backend for offscreen runs and tests.
//
// A Driver replays scripted events and delivers redraws on request, like a
// platform event loop would. With a frame budget it requests close once the
// budget is spent:
//
//	drv := headless.New(800, 600, headless.WithFrames(60))
//	drv.Push(clearpass.ResizeEvent(drv.Window().ID(), 1024, 768))
package headless

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/clearpass/backend"
)

var nextID atomic.Uint64

// Window is an offscreen window target.
type Window struct {
	id uint64

	mu            sync.Mutex
	width, height uint32
	scale         float64
}

// NewWindow creates a window with a unique id.
func NewWindow(width, height uint32) *Window {
	return &Window{id: nextID.Add(1), width: width, height: height, scale: 1}
}

// ID returns the window identity.
func (w *Window) ID() uint64 { return w.id }

// Size returns the physical size.
func (w *Window) Size() (width, height uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Scale returns the scale factor.
func (w *Window) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) set(width, height uint32, scale float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	if scale > 0 {
		w.scale = scale
	}
}

var _ backend.WindowTarget = (*Window)(nil)

// Option configures a Driver.
type Option func(*Driver)

// WithFrames limits the run to n redraws, after which the driver delivers
// a close request. Zero (the default) means no limit.
func WithFrames(n int) Option {
	return func(d *Driver) {
		d.budget = n
	}
}

// WithEvents queues events before the first redraw.
func WithEvents(events ...clearpass.Event) Option {
	return func(d *Driver) {
		d.queue = append(d.queue, events...)
	}
}

// Driver is a scripted event loop driver.
//
// Next delivers queued events first, then a pending redraw. When neither is
// available it requests close if a frame budget was set, and otherwise
// reports exhaustion. Push and RequestRedraw may be called from any
// goroutine.
type Driver struct {
	window *Window

	mu      sync.Mutex
	queue   []clearpass.Event
	pending bool
	budget  int
	redraws int
	closed  bool
}

// New creates a driver with a new width x height window.
func New(width, height uint32, opts ...Option) *Driver {
	d := &Driver{window: NewWindow(width, height)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Window returns the driver's window.
func (d *Driver) Window() backend.WindowTarget { return d.window }

// HeadlessWindow returns the driver's window with its concrete type.
func (d *Driver) HeadlessWindow() *Window { return d.window }

// Push queues an event. Resize and scale events update the window size when
// they are delivered.
func (d *Driver) Push(ev clearpass.Event) {
	d.mu.Lock()
	d.queue = append(d.queue, ev)
	d.mu.Unlock()
}

// RequestRedraw schedules one redraw. Requests are coalesced.
func (d *Driver) RequestRedraw() {
	d.mu.Lock()
	d.pending = true
	d.mu.Unlock()
}

// Redraws returns the number of redraw events delivered.
func (d *Driver) Redraws() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.redraws
}

// Next returns the next event. It never blocks: a headless loop has no
// external event source to wait for.
func (d *Driver) Next(ctx context.Context) (clearpass.Event, bool) {
	if ctx.Err() != nil {
		return clearpass.Event{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) > 0 {
		ev := d.queue[0]
		d.queue = d.queue[1:]
		if ev.Kind == clearpass.EventResize || ev.Kind == clearpass.EventScaleFactorChanged {
			d.window.set(ev.Width, ev.Height, ev.Scale)
		}
		return ev, true
	}

	if d.pending && (d.budget == 0 || d.redraws < d.budget) {
		d.pending = false
		d.redraws++
		return clearpass.RedrawEvent(d.window.id), true
	}

	if d.budget > 0 && !d.closed {
		d.closed = true
		return clearpass.CloseEvent(d.window.id), true
	}
	return clearpass.Event{}, false
}

var _ clearpass.Driver = (*Driver)(nil)
