// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Option configures an App during creation.
//
// Example:
//
//	app, err := clearpass.NewApp(ctx, b, win,
//	    clearpass.WithClearColor(clearpass.RGB(0, 0, 0)),
//	    clearpass.WithTransientPolicy(clearpass.TransientExit))
type Option func(*appOptions)

// InputFunc handles a window event before the default handling. Returning
// true consumes the event.
type InputFunc func(app *App, ev Event) bool

// UpdateFunc runs after every rendered frame.
type UpdateFunc func(app *App)

// appOptions holds optional configuration for App creation.
type appOptions struct {
	clear       RGBA
	transient   TransientPolicy
	presentMode backend.PresentMode
	power       gputypes.PowerPreference
	continuous  bool
	input       InputFunc
	update      UpdateFunc
}

// defaultOptions returns the default app options.
func defaultOptions() appOptions {
	return appOptions{
		clear:       ClearColor,
		transient:   TransientRetry,
		presentMode: backend.PresentModeFifo,
		power:       gputypes.PowerPreferenceHighPerformance,
		continuous:  true,
	}
}

// WithClearColor sets the frame clear color.
func WithClearColor(c RGBA) Option {
	return func(o *appOptions) {
		o.clear = c
	}
}

// WithTransientPolicy selects how transient frame errors are handled.
// The default is TransientRetry.
func WithTransientPolicy(p TransientPolicy) Option {
	return func(o *appOptions) {
		o.transient = p
	}
}

// WithPresentMode requests a present mode. Unsupported modes fall back to
// vsync (fifo).
func WithPresentMode(m backend.PresentMode) Option {
	return func(o *appOptions) {
		o.presentMode = m
	}
}

// WithPowerPreference sets the adapter power preference.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *appOptions) {
		o.power = p
	}
}

// WithContinuous selects continuous redraw (the default), where Run asks
// the driver for a new frame after every frame, or on-demand redraw.
func WithContinuous(on bool) Option {
	return func(o *appOptions) {
		o.continuous = on
	}
}

// WithInput installs an input hook.
func WithInput(fn InputFunc) Option {
	return func(o *appOptions) {
		o.input = fn
	}
}

// WithUpdate installs an update hook.
func WithUpdate(fn UpdateFunc) Option {
	return func(o *appOptions) {
		o.update = fn
	}
}
