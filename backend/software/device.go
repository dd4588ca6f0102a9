// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Device is a software device. All work executes synchronously on Submit.
type Device struct {
	backend   *Backend
	label     string
	polls     int
	destroyed bool
}

// CreateCommandEncoder opens a command recording scope.
func (d *Device) CreateCommandEncoder(label string) (backend.CommandEncoder, error) {
	if d.destroyed {
		return nil, backend.ErrDeviceLost
	}
	d.backend.live.encoders.Add(1)
	return &CommandEncoder{device: d, label: label}, nil
}

// Poll is a no-op: submitted work has already completed.
func (d *Device) Poll(bool) { d.polls++ }

// Polls returns how many times Poll was called.
func (d *Device) Polls() int { return d.polls }

// Destroy releases the device.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.backend.live.devices.Add(-1)
}

// Queue is the device's only queue.
type Queue struct {
	device    *Device
	submitted int
}

// Submit executes the command buffers in order.
func (q *Queue) Submit(buffers ...backend.CommandBuffer) error {
	if q.device.destroyed {
		return backend.ErrDeviceLost
	}
	if err := q.device.backend.faults.take(OpSubmit); err != nil {
		return fmt.Errorf("software: submit: %w", err)
	}
	cmds := make([]*CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok || cb.device != q.device {
			return errors.New("software: submit: foreign command buffer")
		}
		if cb.submitted {
			return errors.New("software: submit: command buffer already submitted")
		}
		cmds = append(cmds, cb)
	}
	for _, cb := range cmds {
		for _, op := range cb.ops {
			op.execute()
		}
		cb.submitted = true
	}
	q.submitted += len(cmds)
	return nil
}

// Submitted returns the number of command buffers executed so far.
func (q *Queue) Submitted() int { return q.submitted }

// Present copies tex into the surface front buffer.
func (q *Queue) Present(surface backend.Surface, tex backend.SurfaceTexture) error {
	s, ok := surface.(*Surface)
	if !ok {
		return errors.New("software: present: foreign surface")
	}
	st, ok := tex.(*SurfaceTexture)
	if !ok || st.surface != s {
		return errors.New("software: present: texture not acquired from surface")
	}
	return s.present(st)
}

// CommandEncoder records render passes.
type CommandEncoder struct {
	device   *Device
	label    string
	ops      []attachmentOp
	pass     *RenderPass
	finished bool
	released bool
}

// BeginRenderPass starts a render pass. Each color attachment must be a
// view created by this backend.
func (e *CommandEncoder) BeginRenderPass(desc *backend.RenderPassDescriptor) (backend.RenderPass, error) {
	switch {
	case e.finished || e.released:
		return nil, errors.New("software: begin render pass: encoder closed")
	case e.pass != nil:
		return nil, errors.New("software: begin render pass: another pass is open")
	case desc == nil || len(desc.ColorAttachments) == 0:
		return nil, errors.New("software: begin render pass: no color attachments")
	}

	ops := make([]attachmentOp, 0, len(desc.ColorAttachments))
	for i, att := range desc.ColorAttachments {
		v, ok := att.View.(*TextureView)
		if !ok || v.released {
			return nil, fmt.Errorf("software: begin render pass: attachment %d: invalid view", i)
		}
		ops = append(ops, attachmentOp{
			tex:   v.tex,
			load:  att.LoadOp,
			store: att.StoreOp,
			clear: att.ClearValue,
		})
	}
	e.pass = &RenderPass{encoder: e, label: desc.Label, ops: ops}
	return e.pass, nil
}

// Finish ends recording. It fails with backend.ErrPassOpen while a render
// pass has not been ended.
func (e *CommandEncoder) Finish() (backend.CommandBuffer, error) {
	switch {
	case e.released || e.finished:
		return nil, errors.New("software: finish: encoder closed")
	case e.pass != nil:
		return nil, backend.ErrPassOpen
	}
	e.finished = true
	e.device.backend.live.encoders.Add(-1)
	e.device.backend.live.buffers.Add(1)
	return &CommandBuffer{device: e.device, label: e.label, ops: e.ops}, nil
}

// Release discards the encoder. It is a no-op after Finish.
func (e *CommandEncoder) Release() {
	if e.released || e.finished {
		return
	}
	e.released = true
	e.pass = nil
	e.device.backend.live.encoders.Add(-1)
}

// RenderPass is an open pass of a CommandEncoder.
type RenderPass struct {
	encoder *CommandEncoder
	label   string
	ops     []attachmentOp
	ended   bool
}

// End closes the pass and commits its attachment operations.
func (p *RenderPass) End() error {
	if p.ended {
		return errors.New("software: render pass already ended")
	}
	p.ended = true
	if p.encoder.pass == p {
		p.encoder.ops = append(p.encoder.ops, p.ops...)
		p.encoder.pass = nil
	}
	return nil
}

// CommandBuffer is a finished recording.
type CommandBuffer struct {
	device    *Device
	label     string
	ops       []attachmentOp
	submitted bool
	released  bool
}

// Release frees the command buffer.
func (c *CommandBuffer) Release() {
	if c.released {
		return
	}
	c.released = true
	c.device.backend.live.buffers.Add(-1)
}

// attachmentOp is the load and store work of one color attachment.
type attachmentOp struct {
	tex   *texture
	load  gputypes.LoadOp
	store gputypes.StoreOp
	clear gputypes.Color
}

func (op attachmentOp) execute() {
	if op.load == gputypes.LoadOpClear {
		op.tex.fill(op.clear)
	}
	if op.store == gputypes.StoreOpDiscard {
		op.tex.zero()
	}
}
