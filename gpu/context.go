// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"context"
	"fmt"

	"github.com/gogpu/clearpass/backend"
)

// Context holds the negotiated GPU objects. It is immutable after Create and
// is not safe for concurrent use.
type Context struct {
	backendName string
	instance    backend.Instance
	adapter     backend.Adapter
	info        backend.AdapterInfo
	device      backend.Device
	queue       backend.Queue

	// pending is the surface created for adapter selection, kept until
	// TakeSurface claims it.
	pending       backend.Surface
	pendingTarget uint64

	released bool
}

type result struct {
	gc  *Context
	err error
}

// Create negotiates a GPU context for target on b.
//
// Negotiation runs on its own goroutine. If ctx is done first, Create
// returns ctx.Err() and the late result is released in the background.
// A nil target negotiates without surface compatibility.
func Create(ctx context.Context, b backend.Backend, target backend.WindowTarget, opts ...Option) (*Context, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, backend.ErrBackendNotAvailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	done := make(chan result, 1)
	go func() {
		gc, err := negotiate(b, target, &o)
		done <- result{gc: gc, err: err}
	}()

	select {
	case r := <-done:
		return r.gc, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.gc != nil {
				r.gc.Release()
			}
		}()
		return nil, ctx.Err()
	}
}

func negotiate(b backend.Backend, target backend.WindowTarget, o *options) (*Context, error) {
	log := backend.Logger()

	instance, err := b.CreateInstance(&backend.InstanceDescriptor{Backends: o.backends})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoAdapter, err)
	}
	gc := &Context{backendName: b.Name(), instance: instance}

	if target != nil {
		surf, err := instance.CreateSurface(target)
		if err != nil {
			gc.Release()
			return nil, fmt.Errorf("%w: %w", ErrSurface, err)
		}
		gc.pending = surf
		gc.pendingTarget = target.ID()
	}

	adapter, err := instance.RequestAdapter(&backend.AdapterOptions{
		PowerPreference:      o.power,
		ForceFallbackAdapter: false,
		CompatibleSurface:    gc.pending,
	})
	if err != nil {
		gc.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	gc.adapter = adapter
	gc.info = adapter.Info()

	device, queue, err := adapter.RequestDevice(&backend.DeviceDescriptor{
		Label:            o.deviceLabel,
		RequiredFeatures: o.features,
	})
	if err != nil {
		gc.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	gc.device = device
	gc.queue = queue

	log.Info("gpu: adapter selected",
		"name", gc.info.Name,
		"vendor", gc.info.Vendor,
		"backend", gc.info.Backend,
		"type", gc.info.DeviceType)
	return gc, nil
}

// BackendName returns the name of the backend the context was created on.
func (c *Context) BackendName() string { return c.backendName }

// AdapterInfo describes the selected adapter.
func (c *Context) AdapterInfo() backend.AdapterInfo { return c.info }

// Instance returns the instance.
func (c *Context) Instance() backend.Instance { return c.instance }

// Adapter returns the selected adapter.
func (c *Context) Adapter() backend.Adapter { return c.adapter }

// Device returns the logical device.
func (c *Context) Device() backend.Device { return c.device }

// Queue returns the device queue.
func (c *Context) Queue() backend.Queue { return c.queue }

// TakeSurface hands over the surface bound to target. The first call for
// the target negotiated in Create returns the surface the adapter was
// selected against; any other call creates a new surface. The caller owns
// the returned surface.
func (c *Context) TakeSurface(target backend.WindowTarget) (backend.Surface, error) {
	if c.released {
		return nil, ErrReleased
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %w", ErrSurface, backend.ErrUnsupportedTarget)
	}
	if c.pending != nil && c.pendingTarget == target.ID() {
		s := c.pending
		c.pending = nil
		return s, nil
	}
	s, err := c.instance.CreateSurface(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurface, err)
	}
	return s, nil
}

// Release destroys the device, the adapter and the instance, in that order,
// plus any unclaimed surface. Surfaces handed out by TakeSurface must be
// released by their owner first. Release is idempotent.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true

	if c.pending != nil {
		c.pending.Destroy()
		c.pending = nil
	}
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
		c.queue = nil
	}
	if c.adapter != nil {
		c.adapter.Destroy()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}
