// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Size is a physical pixel size.
type Size struct {
	Width  uint32
	Height uint32
}

// Valid reports whether both dimensions are non-zero.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Config is the swap configuration negotiated between device and surface.
type Config struct {
	Format      gputypes.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode backend.PresentMode
	Usage       gputypes.TextureUsage
	AlphaMode   backend.AlphaMode
}

// Size returns the configured dimensions.
func (c Config) Size() Size { return Size{Width: c.Width, Height: c.Height} }

// Descriptor converts the config to the backend form.
func (c Config) Descriptor() *backend.SurfaceConfiguration {
	return &backend.SurfaceConfiguration{
		Usage:       c.Usage,
		Format:      c.Format,
		Width:       c.Width,
		Height:      c.Height,
		PresentMode: c.PresentMode,
		AlphaMode:   c.AlphaMode,
	}
}
