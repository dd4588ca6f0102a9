// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"sync/atomic"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.BackendSoftware, func() backend.Backend {
		return New()
	})
}

// DefaultAdapter describes the adapter exposed when no WithAdapters option
// is given.
var DefaultAdapter = backend.AdapterInfo{
	Name:       "Software Rasterizer",
	Vendor:     "gogpu",
	Driver:     "clearpass",
	Backend:    backend.BackendSoftware,
	DeviceType: gputypes.DeviceTypeCPU,
}

// DefaultSwapChainLength is the number of images in a configured swap chain.
const DefaultSwapChainLength = 2

// Backend is the software backend. It is safe to create several instances
// from one Backend; they share its fault injector and resource counters.
type Backend struct {
	adapters     []backend.AdapterInfo
	formats      []gputypes.TextureFormat
	presentModes []backend.PresentMode
	chainLength  int
	faults       *Faults
	live         counters
}

// Option configures a Backend.
type Option func(*Backend)

// WithAdapters replaces the exposed adapters. Passing none makes every
// adapter request fail with backend.ErrNoAdapter.
func WithAdapters(infos ...backend.AdapterInfo) Option {
	return func(b *Backend) {
		b.adapters = append([]backend.AdapterInfo(nil), infos...)
	}
}

// WithSurfaceFormats replaces the supported surface formats, preferred
// first.
func WithSurfaceFormats(formats ...gputypes.TextureFormat) Option {
	return func(b *Backend) {
		b.formats = append([]gputypes.TextureFormat(nil), formats...)
	}
}

// WithPresentModes replaces the supported present modes.
func WithPresentModes(modes ...backend.PresentMode) Option {
	return func(b *Backend) {
		b.presentModes = append([]backend.PresentMode(nil), modes...)
	}
}

// WithSwapChainLength sets the number of swap chain images (minimum 1).
func WithSwapChainLength(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.chainLength = n
		}
	}
}

// WithFaults attaches a fault injector.
func WithFaults(f *Faults) Option {
	return func(b *Backend) {
		b.faults = f
	}
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		adapters:     []backend.AdapterInfo{DefaultAdapter},
		formats:      []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm},
		presentModes: []backend.PresentMode{backend.PresentModeFifo, backend.PresentModeMailbox, backend.PresentModeImmediate},
		chainLength:  DefaultSwapChainLength,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.faults == nil {
		b.faults = NewFaults()
	}
	return b
}

// Name returns "software".
func (b *Backend) Name() string { return backend.BackendSoftware }

// CreateInstance creates an instance. It fails with
// backend.ErrBackendNotAvailable if desc excludes the software family.
func (b *Backend) CreateInstance(desc *backend.InstanceDescriptor) (backend.Instance, error) {
	if desc != nil && desc.Backends != 0 && !desc.Backends.Has(backend.BackendsSoftware) {
		return nil, backend.ErrBackendNotAvailable
	}
	b.live.instances.Add(1)
	return &Instance{backend: b}, nil
}

// Faults returns the backend's fault injector.
func (b *Backend) Faults() *Faults { return b.faults }

// Live reports the resources currently alive across all instances.
func (b *Backend) Live() Counts {
	return Counts{
		Instances:      int(b.live.instances.Load()),
		Devices:        int(b.live.devices.Load()),
		Surfaces:       int(b.live.surfaces.Load()),
		Textures:       int(b.live.textures.Load()),
		Views:          int(b.live.views.Load()),
		Encoders:       int(b.live.encoders.Load()),
		CommandBuffers: int(b.live.buffers.Load()),
	}
}

// Counts is a snapshot of live resources. Textures counts acquired surface
// textures that were neither presented nor released.
type Counts struct {
	Instances      int
	Devices        int
	Surfaces       int
	Textures       int
	Views          int
	Encoders       int
	CommandBuffers int
}

// Transient reports whether any per-frame resource is still alive.
func (c Counts) Transient() bool {
	return c.Textures != 0 || c.Views != 0 || c.Encoders != 0 || c.CommandBuffers != 0
}

type counters struct {
	instances atomic.Int64
	devices   atomic.Int64
	surfaces  atomic.Int64
	textures  atomic.Int64
	views     atomic.Int64
	encoders  atomic.Int64
	buffers   atomic.Int64
}
