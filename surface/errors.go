// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "errors"

var (
	// ErrNoFormat is returned when the adapter reports no usable format
	// for the surface.
	ErrNoFormat = errors.New("surface: no supported format")

	// ErrReleased is returned by Reconfigure after Release.
	ErrReleased = errors.New("surface: state released")
)
