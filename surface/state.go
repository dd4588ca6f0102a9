// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"slices"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/clearpass/gpu"
)

// State owns the surface of one window and its current configuration.
// It is not safe for concurrent use.
type State struct {
	device  backend.Device
	surface backend.Surface
	target  uint64

	config       Config
	size         Size
	configured   bool
	reconfigures int
	released     bool
}

// Initialize creates the surface state for target.
//
// The surface negotiated by gc for target is reused; the preferred format
// is the first one the adapter reports. If initial has a zero dimension the
// state starts unconfigured and the first valid Reconfigure configures it.
//
// The caller must keep target alive until Release returns.
func Initialize(gc *gpu.Context, target backend.WindowTarget, initial Size, opts ...Option) (*State, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	surf, err := gc.TakeSurface(target)
	if err != nil {
		return nil, err
	}
	caps, err := gc.Adapter().SurfaceCapabilities(surf)
	if err != nil {
		surf.Destroy()
		return nil, fmt.Errorf("surface: capabilities: %w", err)
	}
	if len(caps.Formats) == 0 {
		surf.Destroy()
		return nil, ErrNoFormat
	}

	log := backend.Logger()
	format := caps.Formats[0]
	if slices.Contains(caps.Formats, o.format) {
		format = o.format
	}
	mode := o.presentMode
	if !caps.SupportsPresentMode(mode) {
		log.Warn("surface: present mode not supported, using fifo", "requested", mode)
		mode = backend.PresentModeFifo
	}
	alpha := backend.AlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}

	st := &State{
		device:  gc.Device(),
		surface: surf,
		target:  target.ID(),
		size:    initial,
		config: Config{
			Format:      format,
			Width:       initial.Width,
			Height:      initial.Height,
			PresentMode: mode,
			Usage:       o.usage,
			AlphaMode:   alpha,
		},
	}

	if !initial.Valid() {
		log.Debug("surface: initial size is empty, deferring configuration", "size", initial)
		return st, nil
	}
	if err := st.apply(); err != nil {
		st.Release()
		return nil, err
	}
	log.Info("surface: configured",
		"size", initial, "format", format, "present_mode", mode)
	return st, nil
}

// Reconfigure applies a new size. If size has a zero dimension it does
// nothing and returns false. Otherwise it stores size, updates the config
// and re-applies it to the device exactly once, returning true together
// with any error the backend reported.
//
// Reconfigure(st.Size()) recovers a lost surface.
func (s *State) Reconfigure(size Size) (bool, error) {
	if s.released {
		return false, ErrReleased
	}
	if !size.Valid() {
		backend.Logger().Debug("surface: ignoring empty size", "size", size)
		return false, nil
	}
	s.size = size
	s.config.Width = size.Width
	s.config.Height = size.Height
	s.reconfigures++
	backend.Logger().Debug("surface: reconfigure", "size", size, "count", s.reconfigures)
	return true, s.apply()
}

func (s *State) apply() error {
	if err := s.surface.Configure(s.device, s.config.Descriptor()); err != nil {
		s.configured = false
		return fmt.Errorf("surface: configure %s: %w", s.config.Size(), err)
	}
	s.configured = true
	return nil
}

// Release unconfigures and destroys the surface. It is idempotent.
func (s *State) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.configured {
		s.surface.Unconfigure(s.device)
		s.configured = false
	}
	s.surface.Destroy()
}

// Size returns the last valid size.
func (s *State) Size() Size { return s.size }

// Config returns the current configuration.
func (s *State) Config() Config { return s.config }

// Configured reports whether a configuration is applied to the surface.
func (s *State) Configured() bool { return s.configured }

// Surface returns the backend surface.
func (s *State) Surface() backend.Surface { return s.surface }

// TargetID returns the identity of the window the surface is bound to.
func (s *State) TargetID() uint64 { return s.target }

// Reconfigures returns how many times Reconfigure applied a configuration.
func (s *State) Reconfigures() int { return s.reconfigures }
