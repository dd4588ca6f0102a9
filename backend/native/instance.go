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

// Instance wraps a hal.Instance.
type Instance struct {
	hal  hal.Instance
	kind gputypes.Backend
}

// CreateSurface creates a surface for target, which must implement
// backend.NativeWindow.
func (i *Instance) CreateSurface(target backend.WindowTarget) (backend.Surface, error) {
	nw, ok := target.(backend.NativeWindow)
	if !ok {
		return nil, fmt.Errorf("native: %w: %T has no native handles", backend.ErrUnsupportedTarget, target)
	}
	display, window, err := nw.NativeHandles()
	if err != nil {
		return nil, fmt.Errorf("native: window handles: %w", err)
	}
	s, err := i.hal.CreateSurface(display, window)
	if err != nil {
		return nil, fmt.Errorf("native: create surface: %w", mapError(err))
	}
	return &Surface{hal: s, instance: i, target: target}, nil
}

// RequestAdapter enumerates the HAL adapters and picks one.
//
// CPU adapters count as fallback adapters. With HighPerformance a discrete
// GPU is preferred; with LowPower an integrated one. Otherwise the first
// acceptable adapter in enumeration order wins.
func (i *Instance) RequestAdapter(opts *backend.AdapterOptions) (backend.Adapter, error) {
	var o backend.AdapterOptions
	if opts != nil {
		o = *opts
	}

	var hint hal.Surface
	if o.CompatibleSurface != nil {
		s, ok := o.CompatibleSurface.(*Surface)
		if !ok || s.instance != i {
			return nil, fmt.Errorf("native: %w: surface belongs to another instance", backend.ErrNoAdapter)
		}
		hint = s.hal
	}

	exposed := i.hal.EnumerateAdapters(hint)
	candidates := make([]hal.ExposedAdapter, 0, len(exposed))
	for _, ea := range exposed {
		if isFallback(ea.Info.DeviceType) == o.ForceFallbackAdapter {
			candidates = append(candidates, ea)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("native: %w (%d enumerated)", backend.ErrNoAdapter, len(exposed))
	}

	selected := candidates[pick(candidates, o.PowerPreference)]
	return &Adapter{hal: selected.Adapter, info: adapterInfo(selected.Info)}, nil
}

// Destroy releases the instance.
func (i *Instance) Destroy() {
	i.hal.Destroy()
}

// pick returns the index of the preferred candidate.
func pick(candidates []hal.ExposedAdapter, pref gputypes.PowerPreference) int {
	var want gputypes.DeviceType
	switch pref {
	case gputypes.PowerPreferenceHighPerformance:
		want = gputypes.DeviceTypeDiscreteGPU
	case gputypes.PowerPreferenceLowPower:
		want = gputypes.DeviceTypeIntegratedGPU
	default:
		return 0
	}
	for i := range candidates {
		if candidates[i].Info.DeviceType == want {
			return i
		}
	}
	return 0
}

func isFallback(t gputypes.DeviceType) bool {
	return t == gputypes.DeviceTypeCPU
}

func adapterInfo(info gputypes.AdapterInfo) backend.AdapterInfo {
	return backend.AdapterInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		Driver:     info.Driver,
		Backend:    fmt.Sprint(info.Backend),
		DeviceType: info.DeviceType,
		Fallback:   isFallback(info.DeviceType),
	}
}

// Adapter wraps a hal.Adapter.
type Adapter struct {
	hal  hal.Adapter
	info backend.AdapterInfo
}

// Info describes the adapter.
func (a *Adapter) Info() backend.AdapterInfo { return a.info }

// SurfaceCapabilities queries the HAL for surface support.
func (a *Adapter) SurfaceCapabilities(surface backend.Surface) (*backend.SurfaceCapabilities, error) {
	s, ok := surface.(*Surface)
	if !ok {
		return nil, fmt.Errorf("native: %w: foreign surface %T", backend.ErrUnsupportedTarget, surface)
	}
	hc := a.hal.SurfaceCapabilities(s.hal)
	if hc == nil || len(hc.Formats) == 0 {
		return nil, fmt.Errorf("native: %w: adapter cannot present to surface", backend.ErrNoAdapter)
	}
	caps := &backend.SurfaceCapabilities{
		Formats: append([]gputypes.TextureFormat(nil), hc.Formats...),
	}
	for _, m := range hc.PresentModes {
		if pm, ok := fromHALPresentMode(m); ok {
			caps.PresentModes = append(caps.PresentModes, pm)
		}
	}
	for _, m := range hc.AlphaModes {
		if am, ok := fromHALAlphaMode(m); ok {
			caps.AlphaModes = append(caps.AlphaModes, am)
		}
	}
	if len(caps.PresentModes) == 0 {
		caps.PresentModes = []backend.PresentMode{backend.PresentModeFifo}
	}
	if len(caps.AlphaModes) == 0 {
		caps.AlphaModes = []backend.AlphaMode{backend.AlphaModeOpaque}
	}
	return caps, nil
}

// RequestDevice opens the logical device with default limits.
func (a *Adapter) RequestDevice(desc *backend.DeviceDescriptor) (backend.Device, backend.Queue, error) {
	var features gputypes.Features
	label := ""
	if desc != nil {
		features = desc.RequiredFeatures
		label = desc.Label
	}
	open, err := a.hal.Open(features, gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, fmt.Errorf("native: open device: %w", mapError(err))
	}
	d := &Device{hal: open.Device, label: label}
	return d, &Queue{hal: open.Queue, device: d}, nil
}

// Destroy releases the adapter.
func (a *Adapter) Destroy() {
	a.hal.Destroy()
}
