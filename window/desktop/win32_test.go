// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package desktop

import (
	"testing"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/gpucontext"
)

func TestTranslateVK(t *testing.T) {
	tests := []struct {
		in     uintptr
		want   gpucontext.Key
		wantOK bool
	}{
		{vkEscape, gpucontext.KeyEscape, true},
		{vkSpace, gpucontext.KeySpace, true},
		{0x41, 0, false}, // 'A'
	}
	for _, tt := range tests {
		got, ok := translateVK(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("translateVK(%#x) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsKeyRepeat(t *testing.T) {
	if isKeyRepeat(1) {
		t.Error("first press reported as repeat")
	}
	if !isKeyRepeat(1 | 1<<30) {
		t.Error("held key not reported as repeat")
	}
}

func TestWin32HandleRoutesToSink(t *testing.T) {
	d := newDriver(&fakePlatform{})
	w := &win32{s: d}

	w.handle(wmSize, 0, 600<<16|800)
	w.handle(wmKeyDown, vkEscape, 1)
	w.handle(wmKeyDown, vkEscape, 1|1<<30)
	w.handle(wmKeyUp, vkEscape, 1)
	w.handle(wmClose, 0, 0)

	id := d.Window().ID()
	want := []clearpass.Event{
		clearpass.ResizeEvent(id, 800, 600),
		clearpass.KeyEvent(id, gpucontext.KeyEscape, true),
		clearpass.KeyEvent(id, gpucontext.KeyEscape, false),
		clearpass.CloseEvent(id),
	}
	for i, ev := range want {
		if got := next(t, d); got != ev {
			t.Errorf("event %d = %+v, want %+v", i, got, ev)
		}
	}
	if !w.handle(wmApp, 0, 0) {
		t.Error("wake message not consumed")
	}
	if w.handle(0x0200, 0, 0) { // WM_MOUSEMOVE
		t.Error("unhandled message consumed")
	}
}
