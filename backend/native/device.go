// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/wgpu/hal"
)

// Device wraps a hal.Device. The HAL tracks submissions by index; the
// device remembers the last one.
type Device struct {
	hal   hal.Device
	label string

	mu        sync.Mutex
	submitted uint64
	destroyed bool
}

// CreateCommandEncoder creates an encoder that is already recording.
func (d *Device) CreateCommandEncoder(label string) (backend.CommandEncoder, error) {
	enc, err := d.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", mapError(err))
	}
	if err := enc.BeginEncoding(label); err != nil {
		enc.DiscardEncoding()
		return nil, fmt.Errorf("native: begin encoding: %w", mapError(err))
	}
	return &CommandEncoder{hal: enc, device: d}, nil
}

// Poll blocks until the GPU is idle when wait is true. Submit already
// waits for its own work, so a non-blocking poll has nothing to do.
func (d *Device) Poll(wait bool) {
	if !wait {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed || d.submitted == 0 {
		return
	}
	if err := d.hal.WaitIdle(); err != nil {
		backend.Logger().Warn("native: poll", "error", err)
	}
}

// Destroy releases the device.
func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.hal.Destroy()
}

// Queue wraps a hal.Queue.
type Queue struct {
	hal    hal.Queue
	device *Device
}

// Submit submits buffers and waits until the GPU has completed the
// submission, so the surface texture is complete before it is presented.
func (q *Queue) Submit(buffers ...backend.CommandBuffer) error {
	cmds := make([]hal.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok || cb.hal == nil {
			return fmt.Errorf("native: submit: invalid command buffer %T", b)
		}
		cmds = append(cmds, cb.hal)
	}

	d := q.device
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return fmt.Errorf("native: submit: %w", backend.ErrDeviceLost)
	}
	index, err := q.hal.Submit(cmds)
	if err != nil {
		return fmt.Errorf("native: submit: %w", mapError(err))
	}
	d.submitted = index
	if q.hal.PollCompleted() >= index {
		return nil
	}
	if err := d.hal.WaitIdle(); err != nil {
		return fmt.Errorf("native: wait for submission %d: %w", index, mapError(err))
	}
	return nil
}

// Present presents the whole of tex on surface.
func (q *Queue) Present(surface backend.Surface, tex backend.SurfaceTexture) error {
	s, ok := surface.(*Surface)
	if !ok {
		return fmt.Errorf("native: present: %w: foreign surface %T", backend.ErrUnsupportedTarget, surface)
	}
	st, ok := tex.(*SurfaceTexture)
	if !ok || st.surface != s {
		return fmt.Errorf("native: present: texture does not belong to surface")
	}
	if st.done {
		return fmt.Errorf("native: present: texture already released")
	}
	st.done = true
	// Clearing touches every pixel, so there are no damage rects.
	if err := q.hal.Present(s.hal, st.hal, nil); err != nil {
		return fmt.Errorf("native: present: %w", mapError(err))
	}
	return nil
}

// CommandEncoder wraps a recording hal.CommandEncoder.
type CommandEncoder struct {
	hal    hal.CommandEncoder
	device *Device
	open   bool
	done   bool
}

// BeginRenderPass starts a pass whose attachments are views created by
// this backend.
func (e *CommandEncoder) BeginRenderPass(desc *backend.RenderPassDescriptor) (backend.RenderPass, error) {
	if e.done {
		return nil, fmt.Errorf("native: begin render pass: encoder finished")
	}
	if e.open {
		return nil, fmt.Errorf("native: begin render pass: %w", backend.ErrPassOpen)
	}
	if desc == nil {
		return nil, fmt.Errorf("native: begin render pass: nil descriptor")
	}
	hd := &hal.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: make([]hal.RenderPassColorAttachment, 0, len(desc.ColorAttachments)),
	}
	for i, ca := range desc.ColorAttachments {
		view, ok := ca.View.(*TextureView)
		if !ok || view.hal == nil {
			return nil, fmt.Errorf("native: color attachment %d: invalid view %T", i, ca.View)
		}
		att := hal.RenderPassColorAttachment{
			View:       view.hal,
			LoadOp:     ca.LoadOp,
			StoreOp:    ca.StoreOp,
			ClearValue: ca.ClearValue,
		}
		if ca.ResolveTarget != nil {
			rt, ok := ca.ResolveTarget.(*TextureView)
			if !ok || rt.hal == nil {
				return nil, fmt.Errorf("native: color attachment %d: invalid resolve target %T", i, ca.ResolveTarget)
			}
			att.ResolveTarget = rt.hal
		}
		hd.ColorAttachments = append(hd.ColorAttachments, att)
	}
	e.open = true
	return &RenderPass{hal: e.hal.BeginRenderPass(hd), encoder: e}, nil
}

// Finish ends recording.
func (e *CommandEncoder) Finish() (backend.CommandBuffer, error) {
	if e.done {
		return nil, fmt.Errorf("native: finish: encoder finished")
	}
	if e.open {
		return nil, backend.ErrPassOpen
	}
	e.done = true
	cb, err := e.hal.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("native: end encoding: %w", mapError(err))
	}
	return &CommandBuffer{hal: cb, device: e.device}, nil
}

// Release discards an unfinished encoder.
func (e *CommandEncoder) Release() {
	if e.done {
		return
	}
	e.done = true
	e.hal.DiscardEncoding()
}

// RenderPass wraps a hal.RenderPassEncoder.
type RenderPass struct {
	hal     hal.RenderPassEncoder
	encoder *CommandEncoder
	ended   bool
}

// End closes the pass.
func (p *RenderPass) End() error {
	if p.ended {
		return nil
	}
	p.ended = true
	p.hal.End()
	p.encoder.open = false
	return nil
}

// CommandBuffer wraps a hal.CommandBuffer.
type CommandBuffer struct {
	hal    hal.CommandBuffer
	device *Device
}

// Release frees the command buffer.
func (c *CommandBuffer) Release() {
	if c.hal == nil {
		return
	}
	c.device.hal.FreeCommandBuffer(c.hal)
	c.hal = nil
}
