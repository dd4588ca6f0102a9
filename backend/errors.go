// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import "errors"

// Surface and device errors reported by backends. Implementations wrap them
// with context; use errors.Is to test.
var (
	// ErrSurfaceLost means the surface must be reconfigured before the
	// next frame.
	ErrSurfaceLost = errors.New("backend: surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window
	// (typically after a resize).
	ErrSurfaceOutdated = errors.New("backend: surface outdated")

	// ErrSurfaceTimeout means no texture became available in time.
	ErrSurfaceTimeout = errors.New("backend: surface acquire timeout")

	// ErrOutOfMemory means the GPU or the driver ran out of memory.
	ErrOutOfMemory = errors.New("backend: out of memory")

	// ErrDeviceLost means the logical device is no longer usable.
	ErrDeviceLost = errors.New("backend: device lost")

	// ErrNoAdapter means no adapter matched the requested options.
	ErrNoAdapter = errors.New("backend: no compatible adapter")

	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot run on this platform.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnsupportedTarget means the window target cannot back a surface
	// on this backend.
	ErrUnsupportedTarget = errors.New("backend: unsupported window target")

	// ErrPassOpen is returned by CommandEncoder.Finish while a render pass
	// is still recording.
	ErrPassOpen = errors.New("backend: render pass not ended")

	// ErrNotConfigured is returned by Surface.AcquireTexture before the
	// surface has been configured.
	ErrNotConfigured = errors.New("backend: surface not configured")
)
