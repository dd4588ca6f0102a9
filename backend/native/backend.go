// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	backend.Register(backend.BackendNative, func() backend.Backend {
		b := Probe()
		if b == nil {
			return nil
		}
		return b
	})
}

// probeOrder is the order in which HAL backends are tried.
var probeOrder = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
}

// Probe returns a Backend over the first registered HAL backend, or nil
// when none is compiled in for this platform.
func Probe() *Backend {
	for _, kind := range probeOrder {
		if hb, ok := hal.GetBackend(kind); ok {
			return New(hb, kind)
		}
	}
	backend.Logger().Debug("native: no HAL backend registered")
	return nil
}

// Backend wraps a HAL backend.
type Backend struct {
	hal  hal.Backend
	kind gputypes.Backend
}

// New wraps hb. kind is reported in adapter info and used to match
// instance descriptors.
func New(hb hal.Backend, kind gputypes.Backend) *Backend {
	return &Backend{hal: hb, kind: kind}
}

// Name returns backend.BackendNative.
func (b *Backend) Name() string { return backend.BackendNative }

// CreateInstance creates a HAL instance. It fails with
// backend.ErrBackendNotAvailable if desc excludes this backend's family.
func (b *Backend) CreateInstance(desc *backend.InstanceDescriptor) (backend.Instance, error) {
	if desc != nil && desc.Backends != 0 && !desc.Backends.Has(family(b.kind)) {
		return nil, fmt.Errorf("native: %w: %v not in requested backends", backend.ErrBackendNotAvailable, b.kind)
	}
	inst, err := b.hal.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", mapError(err))
	}
	return &Instance{hal: inst, kind: b.kind}, nil
}

func family(kind gputypes.Backend) backend.Backends {
	switch kind {
	case gputypes.BackendVulkan:
		return backend.BackendsVulkan
	case gputypes.BackendMetal:
		return backend.BackendsMetal
	case gputypes.BackendDX12:
		return backend.BackendsDX12
	default:
		return backend.BackendsGL
	}
}
