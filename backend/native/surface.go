// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/wgpu/hal"
)

// Surface wraps a hal.Surface bound to one native window.
type Surface struct {
	hal      hal.Surface
	instance *Instance
	target   backend.WindowTarget
	device   *Device
}

// Configure (re)creates the swap chain.
func (s *Surface) Configure(device backend.Device, cfg *backend.SurfaceConfiguration) error {
	d, ok := device.(*Device)
	if !ok {
		return fmt.Errorf("native: configure: foreign device %T", device)
	}
	if cfg == nil {
		return fmt.Errorf("native: configure: nil configuration")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("native: configure: zero size %dx%d", cfg.Width, cfg.Height)
	}
	err := s.hal.Configure(d.hal, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       cfg.Usage,
		PresentMode: toHALPresentMode(cfg.PresentMode),
		AlphaMode:   toHALAlphaMode(cfg.AlphaMode),
	})
	if err != nil {
		return fmt.Errorf("native: configure %dx%d: %w", cfg.Width, cfg.Height, mapError(err))
	}
	s.device = d
	return nil
}

// Unconfigure releases the swap chain.
func (s *Surface) Unconfigure(device backend.Device) {
	d, ok := device.(*Device)
	if !ok {
		return
	}
	s.hal.Unconfigure(d.hal)
	if s.device == d {
		s.device = nil
	}
}

// AcquireTexture acquires the next swap chain image.
func (s *Surface) AcquireTexture() (backend.SurfaceTexture, error) {
	if s.device == nil {
		return nil, backend.ErrNotConfigured
	}
	acquired, err := s.hal.AcquireTexture(nil)
	if err != nil {
		return nil, fmt.Errorf("native: acquire: %w", mapError(err))
	}
	if acquired.Suboptimal {
		backend.Logger().Debug("native: suboptimal surface texture")
	}
	return &SurfaceTexture{hal: acquired.Texture, surface: s, device: s.device}, nil
}

// Destroy releases the surface.
func (s *Surface) Destroy() {
	s.hal.Destroy()
}

// SurfaceTexture wraps an acquired hal.SurfaceTexture.
type SurfaceTexture struct {
	hal     hal.SurfaceTexture
	surface *Surface
	device  *Device
	done    bool
}

// CreateView creates a render attachment view of the texture.
func (t *SurfaceTexture) CreateView(desc *backend.TextureViewDescriptor) (backend.TextureView, error) {
	label := ""
	if desc != nil {
		label = desc.Label
	}
	v, err := t.device.hal.CreateTextureView(t.hal, &hal.TextureViewDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("native: create view: %w", mapError(err))
	}
	return &TextureView{hal: v, device: t.device}, nil
}

// Release discards the texture unless it was presented.
func (t *SurfaceTexture) Release() {
	if t.done {
		return
	}
	t.done = true
	t.surface.hal.DiscardTexture(t.hal)
}

// TextureView wraps a hal.TextureView.
type TextureView struct {
	hal    hal.TextureView
	device *Device
}

// Release destroys the view.
func (v *TextureView) Release() {
	if v.hal == nil {
		return
	}
	v.device.hal.DestroyTextureView(v.hal)
	v.hal = nil
}
