// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Startup errors. They wrap the backend error that caused them.
var (
	// ErrNoAdapter is returned when no adapter compatible with the window
	// can be found.
	ErrNoAdapter = errors.New("gpu: no compatible adapter")

	// ErrNoDevice is returned when the adapter cannot open a device.
	ErrNoDevice = errors.New("gpu: device request failed")

	// ErrSurface is returned when the window cannot back a surface.
	ErrSurface = errors.New("gpu: surface creation failed")

	// ErrReleased is returned by methods called after Release.
	ErrReleased = errors.New("gpu: context released")
)

// IsFatal reports whether err is an unrecoverable startup error.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoAdapter) ||
		errors.Is(err, ErrNoDevice) ||
		errors.Is(err, ErrSurface)
}
