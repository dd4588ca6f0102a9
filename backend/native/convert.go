// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/wgpu/hal"
)

// halErrors maps HAL errors onto the backend sentinels the frame loop
// classifies.
var halErrors = []struct {
	hal, backend error
}{
	{hal.ErrSurfaceLost, backend.ErrSurfaceLost},
	{hal.ErrSurfaceOutdated, backend.ErrSurfaceOutdated},
	{hal.ErrTimeout, backend.ErrSurfaceTimeout},
	{hal.ErrDeviceOutOfMemory, backend.ErrOutOfMemory},
	{hal.ErrDeviceLost, backend.ErrDeviceLost},
}

// mapError wraps err with the matching backend sentinel, keeping the HAL
// error in the chain. Unknown errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range halErrors {
		if errors.Is(err, m.hal) {
			return fmt.Errorf("%w: %w", m.backend, err)
		}
	}
	return err
}

func toHALPresentMode(m backend.PresentMode) hal.PresentMode {
	switch m {
	case backend.PresentModeFifoRelaxed:
		return hal.PresentModeFifoRelaxed
	case backend.PresentModeMailbox:
		return hal.PresentModeMailbox
	case backend.PresentModeImmediate:
		return hal.PresentModeImmediate
	default:
		return hal.PresentModeFifo
	}
}

func fromHALPresentMode(m hal.PresentMode) (backend.PresentMode, bool) {
	switch m {
	case hal.PresentModeFifo:
		return backend.PresentModeFifo, true
	case hal.PresentModeFifoRelaxed:
		return backend.PresentModeFifoRelaxed, true
	case hal.PresentModeMailbox:
		return backend.PresentModeMailbox, true
	case hal.PresentModeImmediate:
		return backend.PresentModeImmediate, true
	}
	return 0, false
}

func toHALAlphaMode(m backend.AlphaMode) hal.CompositeAlphaMode {
	switch m {
	case backend.AlphaModePremultiplied:
		return hal.CompositeAlphaModePremultiplied
	case backend.AlphaModeUnpremultiplied:
		return hal.CompositeAlphaModeUnpremultiplied
	case backend.AlphaModeInherit:
		return hal.CompositeAlphaModeInherit
	default:
		return hal.CompositeAlphaModeOpaque
	}
}

func fromHALAlphaMode(m hal.CompositeAlphaMode) (backend.AlphaMode, bool) {
	switch m {
	case hal.CompositeAlphaModeOpaque:
		return backend.AlphaModeOpaque, true
	case hal.CompositeAlphaModePremultiplied:
		return backend.AlphaModePremultiplied, true
	case hal.CompositeAlphaModeUnpremultiplied:
		return backend.AlphaModeUnpremultiplied, true
	case hal.CompositeAlphaModeInherit:
		return backend.AlphaModeInherit, true
	}
	return 0, false
}
