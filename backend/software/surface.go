// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// garbage is the byte swap chain images hold before their first clear.
const garbage = 0xCD

// Surface is an in-memory presentation surface.
type Surface struct {
	instance *Instance
	target   backend.WindowTarget

	device     *Device
	config     backend.SurfaceConfiguration
	configured bool
	chain      []*texture
	next       int
	acquired   *SurfaceTexture

	front      *image.RGBA
	presented  int
	configures int
	destroyed  bool
}

// Configure (re)creates the swap chain. New images hold undefined contents
// until they are cleared.
func (s *Surface) Configure(device backend.Device, cfg *backend.SurfaceConfiguration) error {
	if s.destroyed {
		return errors.New("software: configure: surface destroyed")
	}
	d, ok := device.(*Device)
	if !ok || d.backend != s.instance.backend {
		return errors.New("software: configure: foreign device")
	}
	if d.destroyed {
		return backend.ErrDeviceLost
	}
	if cfg == nil {
		return errors.New("software: configure: nil configuration")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("software: configure: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	b := s.instance.backend
	if !slices.Contains(b.formats, cfg.Format) {
		return fmt.Errorf("software: configure: unsupported format %v", cfg.Format)
	}
	if !slices.Contains(b.presentModes, cfg.PresentMode) {
		return fmt.Errorf("software: configure: unsupported present mode %v", cfg.PresentMode)
	}
	if cfg.Usage&gputypes.TextureUsageRenderAttachment == 0 {
		return errors.New("software: configure: usage must include render attachment")
	}
	if s.acquired != nil {
		return errors.New("software: configure: surface texture still acquired")
	}
	if err := b.faults.take(OpConfigure); err != nil {
		return fmt.Errorf("software: configure: %w", err)
	}

	chain := make([]*texture, b.chainLength)
	for i := range chain {
		chain[i] = newTexture(cfg.Width, cfg.Height, cfg.Format)
	}
	s.device = d
	s.config = *cfg
	s.chain = chain
	s.next = 0
	s.configured = true
	s.configures++
	backend.Logger().Debug("software: surface configured",
		"width", cfg.Width, "height", cfg.Height, "format", cfg.Format, "present_mode", cfg.PresentMode)
	return nil
}

// Unconfigure drops the swap chain.
func (s *Surface) Unconfigure(backend.Device) {
	if s.acquired != nil {
		s.acquired.Release()
	}
	s.chain = nil
	s.configured = false
}

// AcquireTexture returns the next swap chain image. Only one image may be
// acquired at a time.
func (s *Surface) AcquireTexture() (backend.SurfaceTexture, error) {
	switch {
	case s.destroyed:
		return nil, errors.New("software: acquire: surface destroyed")
	case !s.configured:
		return nil, backend.ErrNotConfigured
	case s.device.destroyed:
		return nil, backend.ErrDeviceLost
	}
	if err := s.instance.backend.faults.take(OpAcquire); err != nil {
		return nil, fmt.Errorf("software: acquire: %w", err)
	}
	if s.acquired != nil {
		return nil, fmt.Errorf("software: acquire: %w: previous texture not released", backend.ErrSurfaceTimeout)
	}
	tex := s.chain[s.next]
	s.next = (s.next + 1) % len(s.chain)
	s.acquired = &SurfaceTexture{surface: s, tex: tex}
	s.instance.backend.live.textures.Add(1)
	return s.acquired, nil
}

// Destroy releases the surface.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.Unconfigure(s.device)
	s.destroyed = true
	s.instance.backend.live.surfaces.Add(-1)
}

// Target returns the window the surface is bound to.
func (s *Surface) Target() backend.WindowTarget { return s.target }

// Config returns the active configuration and whether one is applied.
func (s *Surface) Config() (backend.SurfaceConfiguration, bool) {
	return s.config, s.configured
}

// Configures returns how many times Configure succeeded.
func (s *Surface) Configures() int { return s.configures }

// Presented returns how many textures were presented.
func (s *Surface) Presented() int { return s.presented }

// Frame returns a copy of the last presented image, or nil before the first
// present.
func (s *Surface) Frame() *image.RGBA {
	if s.front == nil {
		return nil
	}
	out := image.NewRGBA(s.front.Rect)
	copy(out.Pix, s.front.Pix)
	return out
}

func (s *Surface) present(st *SurfaceTexture) error {
	if st.done {
		return errors.New("software: present: texture already presented or released")
	}
	st.Release()
	if err := s.instance.backend.faults.take(OpPresent); err != nil {
		return fmt.Errorf("software: present: %w", err)
	}
	s.front = st.tex.toRGBA(s.front)
	s.presented++
	return nil
}

// SurfaceTexture is an acquired swap chain image.
type SurfaceTexture struct {
	surface *Surface
	tex     *texture
	done    bool
}

// CreateView creates a full view of the texture.
func (t *SurfaceTexture) CreateView(*backend.TextureViewDescriptor) (backend.TextureView, error) {
	if t.done {
		return nil, errors.New("software: create view: texture no longer acquired")
	}
	t.surface.instance.backend.live.views.Add(1)
	return &TextureView{tex: t.tex, owner: t}, nil
}

// Release discards the texture without presenting it.
func (t *SurfaceTexture) Release() {
	if t.done {
		return
	}
	t.done = true
	if t.surface.acquired == t {
		t.surface.acquired = nil
	}
	t.surface.instance.backend.live.textures.Add(-1)
}

// TextureView is a view of a swap chain image.
type TextureView struct {
	tex      *texture
	owner    *SurfaceTexture
	released bool
}

// Release frees the view.
func (v *TextureView) Release() {
	if v.released {
		return
	}
	v.released = true
	v.owner.surface.instance.backend.live.views.Add(-1)
}

// texture is a 4-byte-per-pixel image in its format's channel order.
type texture struct {
	width, height uint32
	bgra          bool
	pix           []byte
}

func newTexture(w, h uint32, format gputypes.TextureFormat) *texture {
	t := &texture{
		width:  w,
		height: h,
		bgra:   format == gputypes.TextureFormatBGRA8Unorm,
		pix:    make([]byte, int(w)*int(h)*4),
	}
	for i := range t.pix {
		t.pix[i] = garbage
	}
	return t
}

func (t *texture) fill(c gputypes.Color) {
	px := ToRGBA(c)
	p := [4]byte{px.R, px.G, px.B, px.A}
	if t.bgra {
		p[0], p[2] = p[2], p[0]
	}
	for i := 0; i < len(t.pix); i += 4 {
		copy(t.pix[i:i+4], p[:])
	}
}

func (t *texture) zero() {
	clear(t.pix)
}

// toRGBA converts the texture into dst, reallocating it if the size
// differs.
func (t *texture) toRGBA(dst *image.RGBA) *image.RGBA {
	r := image.Rect(0, 0, int(t.width), int(t.height))
	if dst == nil || dst.Rect != r {
		dst = image.NewRGBA(r)
	}
	copy(dst.Pix, t.pix)
	if t.bgra {
		for i := 0; i < len(dst.Pix); i += 4 {
			dst.Pix[i], dst.Pix[i+2] = dst.Pix[i+2], dst.Pix[i]
		}
	}
	return dst
}

// ToRGBA converts a clear color to the 8-bit value the backend stores.
// Components are clamped to [0, 1].
func ToRGBA(c gputypes.Color) color.RGBA {
	return color.RGBA{
		R: unorm8(float64(c.R)),
		G: unorm8(float64(c.G)),
		B: unorm8(float64(c.B)),
		A: unorm8(float64(c.A)),
	}
}

func unorm8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
