// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import "errors"

var (
	// ErrOutOfMemory is returned by Run when the GPU ran out of memory.
	// It wraps the frame error.
	ErrOutOfMemory = errors.New("clearpass: GPU out of memory")

	// ErrClosed is returned by Run for an app that was closed.
	ErrClosed = errors.New("clearpass: app closed")
)
