// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceProvider exposes the context through gpucontext so that host
// integrations can share the device. format is reported as the surface
// format, typically surface.State.Config().Format.
func (c *Context) DeviceProvider(format gputypes.TextureFormat) gpucontext.DeviceProvider {
	return &deviceProvider{gc: c, format: format}
}

type deviceProvider struct {
	gc     *Context
	format gputypes.TextureFormat
}

func (p *deviceProvider) Device() gpucontext.Device {
	if p.gc.device == nil {
		return nil
	}
	return p.gc.device
}

func (p *deviceProvider) Queue() gpucontext.Queue {
	if p.gc.queue == nil {
		return nil
	}
	return p.gc.queue
}

func (p *deviceProvider) Adapter() gpucontext.Adapter {
	if p.gc.adapter == nil {
		return nil
	}
	return p.gc.adapter
}

func (p *deviceProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }

func (p *deviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	if p.gc.adapter == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	return gpucontext.AdapterInfo{Name: p.gc.info.Name, Type: adapterType(p.gc.info)}
}

// adapterType maps adapter info to the coarse gpucontext classification.
// Fallback adapters and CPU devices are both reported as software.
func adapterType(info backend.AdapterInfo) gpucontext.AdapterType {
	if info.Fallback {
		return gpucontext.AdapterTypeSoftware
	}
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterTypeUnknown
}

var _ gpucontext.DeviceProvider = (*deviceProvider)(nil)
