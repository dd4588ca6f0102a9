// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// EventKind identifies an Event.
type EventKind uint8

// Event kinds.
const (
	// EventResize reports a new physical size in Width and Height.
	EventResize EventKind = iota + 1
	// EventScaleFactorChanged reports a new Scale and the resulting
	// physical size.
	EventScaleFactorChanged
	// EventRedraw requests one frame.
	EventRedraw
	// EventCloseRequested asks the application to exit.
	EventCloseRequested
	// EventKey reports a key press or release.
	EventKey
)

var eventNames = [...]string{
	EventResize:             "resize",
	EventScaleFactorChanged: "scale-factor-changed",
	EventRedraw:             "redraw",
	EventCloseRequested:     "close-requested",
	EventKey:                "key",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is a window event delivered by a Driver.
type Event struct {
	Kind EventKind
	// Window is the identity of the window the event is addressed to.
	Window uint64

	Width, Height uint32
	Scale         float64

	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
}

// ResizeEvent returns a resize event.
func ResizeEvent(window uint64, width, height uint32) Event {
	return Event{Kind: EventResize, Window: window, Width: width, Height: height}
}

// ScaleFactorEvent returns a scale factor change with the new physical size.
func ScaleFactorEvent(window uint64, scale float64, width, height uint32) Event {
	return Event{Kind: EventScaleFactorChanged, Window: window, Scale: scale, Width: width, Height: height}
}

// RedrawEvent returns a redraw request.
func RedrawEvent(window uint64) Event {
	return Event{Kind: EventRedraw, Window: window}
}

// CloseEvent returns a close request.
func CloseEvent(window uint64) Event {
	return Event{Kind: EventCloseRequested, Window: window}
}

// KeyEvent returns a key event.
func KeyEvent(window uint64, key gpucontext.Key, pressed bool) Event {
	return Event{Kind: EventKey, Window: window, Key: key, Pressed: pressed}
}

func (e Event) String() string {
	switch e.Kind {
	case EventResize:
		return fmt.Sprintf("resize(%d, %dx%d)", e.Window, e.Width, e.Height)
	case EventScaleFactorChanged:
		return fmt.Sprintf("scale-factor-changed(%d, %g, %dx%d)", e.Window, e.Scale, e.Width, e.Height)
	case EventKey:
		return fmt.Sprintf("key(%d, %v, pressed=%t)", e.Window, e.Key, e.Pressed)
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Window)
}
