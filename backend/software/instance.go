// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Instance is a software instance.
type Instance struct {
	backend   *Backend
	destroyed bool
}

// CreateSurface creates a surface for target. Any window target is
// accepted; the software backend does not need native handles.
func (i *Instance) CreateSurface(target backend.WindowTarget) (backend.Surface, error) {
	if i.destroyed {
		return nil, errors.New("software: instance destroyed")
	}
	if target == nil {
		return nil, fmt.Errorf("software: create surface: %w", backend.ErrUnsupportedTarget)
	}
	i.backend.live.surfaces.Add(1)
	return &Surface{instance: i, target: target}, nil
}

// RequestAdapter selects an adapter. Fallback adapters are returned only
// when opts.ForceFallbackAdapter is set, and then exclusively. With
// PowerPreferenceHighPerformance a discrete adapter wins over others.
func (i *Instance) RequestAdapter(opts *backend.AdapterOptions) (backend.Adapter, error) {
	if i.destroyed {
		return nil, errors.New("software: instance destroyed")
	}
	if opts == nil {
		opts = &backend.AdapterOptions{}
	}
	if opts.CompatibleSurface != nil {
		s, ok := opts.CompatibleSurface.(*Surface)
		if !ok || s.instance != i {
			return nil, fmt.Errorf("%w: surface belongs to another instance", backend.ErrNoAdapter)
		}
	}

	var candidates []backend.AdapterInfo
	for _, info := range i.backend.adapters {
		if info.Fallback != opts.ForceFallbackAdapter {
			continue
		}
		candidates = append(candidates, info)
	}
	if len(candidates) == 0 {
		return nil, backend.ErrNoAdapter
	}

	chosen := candidates[0]
	if opts.PowerPreference == gputypes.PowerPreferenceHighPerformance {
		if idx := slices.IndexFunc(candidates, func(a backend.AdapterInfo) bool {
			return a.DeviceType == gputypes.DeviceTypeDiscreteGPU
		}); idx >= 0 {
			chosen = candidates[idx]
		}
	}
	return &Adapter{instance: i, info: chosen}, nil
}

// Destroy releases the instance.
func (i *Instance) Destroy() {
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.backend.live.instances.Add(-1)
}

// Adapter is a software adapter.
type Adapter struct {
	instance *Instance
	info     backend.AdapterInfo
}

// Info describes the adapter.
func (a *Adapter) Info() backend.AdapterInfo { return a.info }

// SurfaceCapabilities reports the backend's formats and present modes.
func (a *Adapter) SurfaceCapabilities(surface backend.Surface) (*backend.SurfaceCapabilities, error) {
	s, ok := surface.(*Surface)
	if !ok || s.instance != a.instance {
		return nil, errors.New("software: surface belongs to another instance")
	}
	b := a.instance.backend
	return &backend.SurfaceCapabilities{
		Formats:      slices.Clone(b.formats),
		PresentModes: slices.Clone(b.presentModes),
		AlphaModes:   []backend.AlphaMode{backend.AlphaModeOpaque, backend.AlphaModeAuto},
	}, nil
}

// RequestDevice opens a device and its queue.
func (a *Adapter) RequestDevice(desc *backend.DeviceDescriptor) (backend.Device, backend.Queue, error) {
	b := a.instance.backend
	if err := b.faults.take(OpRequestDevice); err != nil {
		return nil, nil, fmt.Errorf("software: request device: %w", err)
	}
	if desc != nil && desc.RequiredFeatures != 0 {
		return nil, nil, fmt.Errorf("software: unsupported features %#x", uint64(desc.RequiredFeatures))
	}
	label := ""
	if desc != nil {
		label = desc.Label
	}
	d := &Device{backend: b, label: label}
	b.live.devices.Add(1)
	return d, &Queue{device: d}, nil
}

// Destroy releases the adapter.
func (a *Adapter) Destroy() {}
