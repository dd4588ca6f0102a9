// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/clearpass/gpu"
	"github.com/gogpu/clearpass/surface"
	"github.com/gogpu/gputypes"
)

// DefaultClearColor is the color every frame is cleared to.
var DefaultClearColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// Debug labels of the per-frame GPU objects.
const (
	EncoderLabel = "Render Encoder"
	PassLabel    = "Render Pass"
)

// Renderer clears the surface once per RenderFrame call.
type Renderer struct {
	clear  gputypes.Color
	frames uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClearColor overrides DefaultClearColor.
func WithClearColor(c gputypes.Color) Option {
	return func(r *Renderer) {
		r.clear = c
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{clear: DefaultClearColor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClearColor returns the color frames are cleared to.
func (r *Renderer) ClearColor() gputypes.Color { return r.clear }

// Frames returns the number of frames presented.
func (r *Renderer) Frames() uint64 { return r.frames }

// RenderFrame acquires the next surface texture, clears it in one render
// pass, submits the commands and presents the texture. Every object it
// acquires is released before it returns, whether it fails or not.
//
// Errors are returned as *FrameError.
func (r *Renderer) RenderFrame(gc *gpu.Context, st *surface.State) error {
	if !st.Configured() {
		// Reported like a backend acquire on an unconfigured surface, for
		// example while the window is minimized.
		return &FrameError{Stage: StageAcquire, Err: backend.ErrNotConfigured}
	}
	log := backend.Logger()

	tex, err := st.Surface().AcquireTexture()
	if err != nil {
		return &FrameError{Stage: StageAcquire, Err: err}
	}
	// No-op once presented.
	defer tex.Release()

	view, err := tex.CreateView(nil)
	if err != nil {
		return &FrameError{Stage: StageView, Err: err}
	}
	defer view.Release()

	encoder, err := gc.Device().CreateCommandEncoder(EncoderLabel)
	if err != nil {
		return &FrameError{Stage: StageEncoder, Err: err}
	}
	defer encoder.Release()

	if err := r.clearPass(encoder, view); err != nil {
		return &FrameError{Stage: StagePass, Err: err}
	}

	cmd, err := encoder.Finish()
	if err != nil {
		return &FrameError{Stage: StageFinish, Err: err}
	}
	defer cmd.Release()

	if err := gc.Queue().Submit(cmd); err != nil {
		return &FrameError{Stage: StageSubmit, Err: err}
	}
	if err := gc.Queue().Present(st.Surface(), tex); err != nil {
		return &FrameError{Stage: StagePresent, Err: err}
	}

	r.frames++
	log.Debug("render: frame presented", "frame", r.frames, "size", st.Size())
	return nil
}

// clearPass records the clear pass. The pass is ended before it returns on
// every path, so the encoder can be finished afterwards.
func (r *Renderer) clearPass(encoder backend.CommandEncoder, view backend.TextureView) (err error) {
	pass, err := encoder.BeginRenderPass(&backend.RenderPassDescriptor{
		Label: PassLabel,
		ColorAttachments: []backend.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	if err != nil {
		return err
	}
	defer func() {
		if endErr := pass.End(); err == nil {
			err = endErr
		}
	}()
	return nil
}
