// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

type headlessTarget struct{}

func (headlessTarget) ID() uint64                   { return 1 }
func (headlessTarget) Size() (width, height uint32) { return 16, 16 }

func newNoopInstance(t *testing.T) *Instance {
	t.Helper()
	b := New(noop.API{}, gputypes.BackendVulkan)
	inst, err := b.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	t.Cleanup(inst.Destroy)
	return inst.(*Instance)
}

// requestAny accepts the noop adapter whether or not it reports itself as
// a CPU device.
func requestAny(t *testing.T, inst *Instance) backend.Adapter {
	t.Helper()
	for _, fallback := range []bool{false, true} {
		a, err := inst.RequestAdapter(&backend.AdapterOptions{ForceFallbackAdapter: fallback})
		if err == nil {
			if a.Info().Fallback != fallback {
				t.Errorf("Fallback = %v, requested %v", a.Info().Fallback, fallback)
			}
			return a
		}
		if !errors.Is(err, backend.ErrNoAdapter) {
			t.Fatalf("RequestAdapter(fallback=%v) = %v, want ErrNoAdapter", fallback, err)
		}
	}
	t.Fatal("noop instance exposed no adapter")
	return nil
}

func TestBackendName(t *testing.T) {
	b := New(noop.API{}, gputypes.BackendVulkan)
	if got := b.Name(); got != backend.BackendNative {
		t.Errorf("Name() = %q, want %q", got, backend.BackendNative)
	}
}

func TestCreateInstanceFiltersFamilies(t *testing.T) {
	b := New(noop.API{}, gputypes.BackendVulkan)
	_, err := b.CreateInstance(&backend.InstanceDescriptor{Backends: backend.BackendsSoftware})
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("CreateInstance(software only) = %v, want ErrBackendNotAvailable", err)
	}

	inst, err := b.CreateInstance(&backend.InstanceDescriptor{Backends: backend.BackendsPrimary})
	if err != nil {
		t.Fatalf("CreateInstance(primary) failed: %v", err)
	}
	inst.Destroy()
}

func TestCreateSurfaceNeedsNativeWindow(t *testing.T) {
	inst := newNoopInstance(t)
	_, err := inst.CreateSurface(headlessTarget{})
	if !errors.Is(err, backend.ErrUnsupportedTarget) {
		t.Errorf("CreateSurface(headless) = %v, want ErrUnsupportedTarget", err)
	}
}

type brokenWindow struct{ headlessTarget }

func (brokenWindow) NativeHandles() (display, window uintptr, err error) {
	return 0, 0, errors.New("no display")
}

func TestCreateSurfaceHandleError(t *testing.T) {
	inst := newNoopInstance(t)
	if _, err := inst.CreateSurface(brokenWindow{}); err == nil {
		t.Error("expected error when the window has no handles")
	}
}

func TestRequestAdapterForeignSurface(t *testing.T) {
	a := newNoopInstance(t)
	other := &Surface{instance: newNoopInstance(t)}
	_, err := a.RequestAdapter(&backend.AdapterOptions{CompatibleSurface: other})
	if !errors.Is(err, backend.ErrNoAdapter) {
		t.Errorf("RequestAdapter(foreign surface) = %v, want ErrNoAdapter", err)
	}
}

func TestDeviceAndEncoder(t *testing.T) {
	inst := newNoopInstance(t)
	adapter := requestAny(t, inst)
	defer adapter.Destroy()

	device, queue, err := adapter.RequestDevice(&backend.DeviceDescriptor{Label: "test"})
	if err != nil {
		t.Fatalf("RequestDevice failed: %v", err)
	}
	defer device.Destroy()
	if queue == nil {
		t.Fatal("nil queue")
	}

	enc, err := device.CreateCommandEncoder("encoder")
	if err != nil {
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if _, err := enc.BeginRenderPass(&backend.RenderPassDescriptor{
		ColorAttachments: []backend.RenderPassColorAttachment{{View: nil}},
	}); err == nil {
		t.Error("BeginRenderPass with a nil view should fail")
	}
	cmd, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if err := queue.Submit(cmd); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := device.(*Device).submitted; got != 1 {
		t.Errorf("submission index = %d, want 1", got)
	}
	device.Poll(true)
	cmd.Release()
	cmd.Release()
	if err := queue.Submit(cmd); err == nil {
		t.Error("Submit of a released command buffer should fail")
	}
	enc.Release()

	if _, err := enc.Finish(); err == nil {
		t.Error("second Finish should fail")
	}

	// Destroy is idempotent.
	device.Destroy()
}

type failingEncoder struct {
	noop.CommandEncoder
	discarded int
}

func (e *failingEncoder) BeginEncoding(string) error { return hal.ErrDeviceLost }
func (e *failingEncoder) DiscardEncoding()           { e.discarded++ }

type failingDevice struct {
	noop.Device
	enc *failingEncoder
}

func (d *failingDevice) CreateCommandEncoder(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return d.enc, nil
}

func TestCreateCommandEncoderDiscardsOnBeginFailure(t *testing.T) {
	fd := &failingDevice{enc: &failingEncoder{}}
	d := &Device{hal: fd}

	_, err := d.CreateCommandEncoder("encoder")
	if !errors.Is(err, backend.ErrDeviceLost) {
		t.Fatalf("CreateCommandEncoder() error = %v, want ErrDeviceLost", err)
	}
	if fd.enc.discarded != 1 {
		t.Errorf("DiscardEncoding calls = %d, want 1", fd.enc.discarded)
	}
}

type slowQueue struct {
	noop.Queue
	index uint64
}

func (q *slowQueue) Submit([]hal.CommandBuffer) (uint64, error) {
	q.index++
	return q.index, nil
}

func (q *slowQueue) PollCompleted() uint64 { return q.index - 1 }

type idleCountingDevice struct {
	noop.Device
	waits int
	err   error
}

func (d *idleCountingDevice) WaitIdle() error {
	d.waits++
	return d.err
}

func TestSubmitWaitsForIncompleteSubmission(t *testing.T) {
	tests := []struct {
		name    string
		waitErr error
		want    error
	}{
		{"completes", nil, nil},
		{"device lost while waiting", hal.ErrDeviceLost, backend.ErrDeviceLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &idleCountingDevice{err: tt.waitErr}
			d := &Device{hal: dev}
			q := &Queue{hal: &slowQueue{}, device: d}

			err := q.Submit(&CommandBuffer{hal: &noop.Resource{}, device: d})
			if tt.want == nil && err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.want)
			}
			if dev.waits != 1 {
				t.Errorf("WaitIdle calls = %d, want 1", dev.waits)
			}
			if d.submitted != 1 {
				t.Errorf("submission index = %d, want 1", d.submitted)
			}
		})
	}
}

func TestSubmitAfterDestroy(t *testing.T) {
	d := &Device{hal: &noop.Device{}}
	q := &Queue{hal: &noop.Queue{}, device: d}
	d.Destroy()
	err := q.Submit(&CommandBuffer{hal: &noop.Resource{}, device: d})
	if !errors.Is(err, backend.ErrDeviceLost) {
		t.Errorf("Submit() after Destroy = %v, want ErrDeviceLost", err)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{hal.ErrSurfaceLost, backend.ErrSurfaceLost},
		{hal.ErrSurfaceOutdated, backend.ErrSurfaceOutdated},
		{hal.ErrTimeout, backend.ErrSurfaceTimeout},
		{hal.ErrDeviceOutOfMemory, backend.ErrOutOfMemory},
		{hal.ErrDeviceLost, backend.ErrDeviceLost},
		{fmt.Errorf("vulkan: %w", hal.ErrSurfaceLost), backend.ErrSurfaceLost},
	}
	for _, tt := range tests {
		got := mapError(tt.in)
		if !errors.Is(got, tt.want) {
			t.Errorf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !errors.Is(got, tt.in) {
			t.Errorf("mapError(%v) dropped the HAL error", tt.in)
		}
	}

	if mapError(nil) != nil {
		t.Error("mapError(nil) != nil")
	}
	plain := errors.New("other")
	if got := mapError(plain); got != plain {
		t.Errorf("mapError(plain) = %v, want unchanged", got)
	}
}

func TestPresentModeRoundTrip(t *testing.T) {
	for _, m := range []backend.PresentMode{
		backend.PresentModeFifo,
		backend.PresentModeFifoRelaxed,
		backend.PresentModeMailbox,
		backend.PresentModeImmediate,
	} {
		got, ok := fromHALPresentMode(toHALPresentMode(m))
		if !ok || got != m {
			t.Errorf("present mode %v round-tripped to %v (ok=%v)", m, got, ok)
		}
	}
}

func TestAlphaModeConversion(t *testing.T) {
	if got := toHALAlphaMode(backend.AlphaModeAuto); got != hal.CompositeAlphaModeOpaque {
		t.Errorf("auto alpha mode = %v, want opaque", got)
	}
	for _, m := range []backend.AlphaMode{
		backend.AlphaModeOpaque,
		backend.AlphaModePremultiplied,
		backend.AlphaModeUnpremultiplied,
		backend.AlphaModeInherit,
	} {
		got, ok := fromHALAlphaMode(toHALAlphaMode(m))
		if !ok || got != m {
			t.Errorf("alpha mode %v round-tripped to %v (ok=%v)", m, got, ok)
		}
	}
}

func TestPick(t *testing.T) {
	candidates := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "igpu", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "dgpu", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}
	if got := pick(candidates, gputypes.PowerPreferenceHighPerformance); got != 1 {
		t.Errorf("high performance picked %d, want 1", got)
	}
	if got := pick(candidates, gputypes.PowerPreferenceLowPower); got != 0 {
		t.Errorf("low power picked %d, want 0", got)
	}
	if got := pick(candidates[:1], gputypes.PowerPreferenceHighPerformance); got != 0 {
		t.Errorf("single candidate picked %d, want 0", got)
	}
}
