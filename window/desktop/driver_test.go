// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package desktop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/gpucontext"
)

// fakePlatform replays one batch of scripted events per dispatch.
type fakePlatform struct {
	mu      sync.Mutex
	w, h    uint32
	batches []func(s sink)
	err     error
	blocks  []bool
	wakes   int
	closes  int
}

func (p *fakePlatform) size() (uint32, uint32) { return p.w, p.h }
func (p *fakePlatform) scale() float64         { return 2 }

func (p *fakePlatform) handles() (uintptr, uintptr, error) {
	return 1, 2, nil
}

func (p *fakePlatform) dispatch(s sink, block bool, _ time.Duration) error {
	p.mu.Lock()
	p.blocks = append(p.blocks, block)
	if p.err != nil {
		p.mu.Unlock()
		return p.err
	}
	var batch func(sink)
	if len(p.batches) > 0 {
		batch = p.batches[0]
		p.batches = p.batches[1:]
	}
	p.mu.Unlock()
	if batch != nil {
		batch(s)
	}
	return nil
}

func (p *fakePlatform) wake() {
	p.mu.Lock()
	p.wakes++
	p.mu.Unlock()
}

func (p *fakePlatform) close() { p.closes++ }

func next(t *testing.T, d *Driver) clearpass.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, ok := d.Next(ctx)
	if !ok {
		t.Fatal("Next returned false")
	}
	return ev
}

func TestDriver_NewWindowState(t *testing.T) {
	d := newDriver(&fakePlatform{w: 640, h: 480})
	w := d.Window().(*Window)
	if w.ID() == 0 {
		t.Error("window ID is zero")
	}
	if gw, gh := w.Size(); gw != 640 || gh != 480 {
		t.Errorf("Size() = %dx%d, want 640x480", gw, gh)
	}
	if w.Scale() != 2 {
		t.Errorf("Scale() = %v, want 2", w.Scale())
	}
	if dpy, win, err := w.NativeHandles(); err != nil || dpy != 1 || win != 2 {
		t.Errorf("NativeHandles() = %d, %d, %v", dpy, win, err)
	}
}

func TestDriver_WindowEventsBeforeRedraw(t *testing.T) {
	p := &fakePlatform{w: 640, h: 480, batches: []func(sink){
		func(s sink) {
			s.exposed()
			s.resized(800, 600)
			s.key(gpucontext.KeySpace, true)
			s.closeRequested()
		},
	}}
	d := newDriver(p)
	id := d.Window().ID()

	want := []clearpass.Event{
		clearpass.ResizeEvent(id, 800, 600),
		clearpass.KeyEvent(id, gpucontext.KeySpace, true),
		clearpass.CloseEvent(id),
		clearpass.RedrawEvent(id),
	}
	for i, w := range want {
		if got := next(t, d); got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}
	if gw, gh := d.Window().(*Window).Size(); gw != 800 || gh != 600 {
		t.Errorf("Size() = %dx%d after resize, want 800x600", gw, gh)
	}
}

func TestDriver_RedrawsCollapse(t *testing.T) {
	p := &fakePlatform{w: 640, h: 480}
	d := newDriver(p)
	d.RequestRedraw()
	d.RequestRedraw()
	d.RequestRedraw()

	if ev := next(t, d); ev.Kind != clearpass.EventRedraw {
		t.Fatalf("first event = %v, want redraw", ev.Kind)
	}
	if p.wakes != 3 {
		t.Errorf("wakes = %d, want 3", p.wakes)
	}
	if len(p.blocks) != 1 || p.blocks[0] {
		t.Errorf("dispatch blocks = %v, want one non-blocking dispatch", p.blocks)
	}

	// Nothing pending: Next blocks until the context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if ev, ok := d.Next(ctx); ok {
		t.Errorf("Next() = %+v, want no second redraw", ev)
	}
	if !p.blocks[len(p.blocks)-1] {
		t.Error("idle dispatch should block")
	}
}

func TestDriver_ResizeDeduplicated(t *testing.T) {
	p := &fakePlatform{w: 640, h: 480, batches: []func(sink){
		func(s sink) {
			s.resized(640, 480)
			s.resized(320, 240)
			s.resized(320, 240)
			s.rescaled(1.5, 480, 360)
		},
	}}
	d := newDriver(p)
	id := d.Window().ID()

	if got, want := next(t, d), clearpass.ResizeEvent(id, 320, 240); got != want {
		t.Errorf("event = %+v, want %+v", got, want)
	}
	if got, want := next(t, d), clearpass.ScaleFactorEvent(id, 1.5, 480, 360); got != want {
		t.Errorf("event = %+v, want %+v", got, want)
	}
	w := d.Window().(*Window)
	if w.Scale() != 1.5 {
		t.Errorf("Scale() = %v, want 1.5", w.Scale())
	}
	if gw, gh := w.Size(); gw != 480 || gh != 360 {
		t.Errorf("Size() = %dx%d, want 480x360", gw, gh)
	}
}

func TestDriver_NextStops(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Driver, *fakePlatform) context.Context
	}{
		{"canceled", func(*Driver, *fakePlatform) context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}},
		{"closed", func(d *Driver, _ *fakePlatform) context.Context {
			d.Close()
			return context.Background()
		}},
		{"connection lost", func(_ *Driver, p *fakePlatform) context.Context {
			p.err = errors.New("broken pipe")
			return context.Background()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlatform{w: 640, h: 480}
			d := newDriver(p)
			d.RequestRedraw()
			if ev, ok := d.Next(tt.setup(d, p)); ok {
				t.Errorf("Next() = %+v, true; want false", ev)
			}
		})
	}
}

func TestDriver_CloseIdempotent(t *testing.T) {
	p := &fakePlatform{w: 640, h: 480}
	d := newDriver(p)
	d.Close()
	d.Close()
	if p.closes != 1 {
		t.Errorf("platform closed %d times, want 1", p.closes)
	}
	if _, _, err := d.Window().(*Window).NativeHandles(); !errors.Is(err, ErrNoHandles) {
		t.Errorf("NativeHandles() after Close = %v, want ErrNoHandles", err)
	}
	d.RequestRedraw()
	if p.wakes != 0 {
		t.Errorf("RequestRedraw after Close woke the platform %d times", p.wakes)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Width: 0, Height: 10}); err == nil {
		t.Error("New accepted a zero width")
	}
}

func TestClampDim(t *testing.T) {
	if got := clampDim(-5); got != 0 {
		t.Errorf("clampDim(-5) = %d, want 0", got)
	}
	if got := clampDim(640); got != 640 {
		t.Errorf("clampDim(640) = %d, want 640", got)
	}
}
