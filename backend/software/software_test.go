// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

type fakeWindow struct{ w, h uint32 }

func (f *fakeWindow) ID() uint64                   { return 1 }
func (f *fakeWindow) Size() (width, height uint32) { return f.w, f.h }

// setup creates an instance, surface, device and queue with a configured
// 4x3 swap chain.
func setup(t *testing.T, b *Backend) (*Surface, *Device, *Queue) {
	t.Helper()
	inst, err := b.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	t.Cleanup(inst.Destroy)

	surf, err := inst.CreateSurface(&fakeWindow{w: 4, h: 3})
	if err != nil {
		t.Fatalf("CreateSurface() error = %v", err)
	}
	t.Cleanup(surf.Destroy)

	adapter, err := inst.RequestAdapter(&backend.AdapterOptions{CompatibleSurface: surf})
	if err != nil {
		t.Fatalf("RequestAdapter() error = %v", err)
	}
	dev, queue, err := adapter.RequestDevice(nil)
	if err != nil {
		t.Fatalf("RequestDevice() error = %v", err)
	}
	t.Cleanup(dev.Destroy)

	caps, err := adapter.SurfaceCapabilities(surf)
	if err != nil {
		t.Fatalf("SurfaceCapabilities() error = %v", err)
	}
	err = surf.Configure(dev, &backend.SurfaceConfiguration{
		Usage:       gputypes.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       4,
		Height:      3,
		PresentMode: backend.PresentModeFifo,
	})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return surf.(*Surface), dev.(*Device), queue.(*Queue)
}

func clearFrame(t *testing.T, surf *Surface, dev *Device, q *Queue, c gputypes.Color) {
	t.Helper()
	tex, err := surf.AcquireTexture()
	if err != nil {
		t.Fatalf("AcquireTexture() error = %v", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		t.Fatalf("CreateView() error = %v", err)
	}
	defer view.Release()

	enc, err := dev.CreateCommandEncoder("test")
	if err != nil {
		t.Fatalf("CreateCommandEncoder() error = %v", err)
	}
	defer enc.Release()
	pass, err := enc.BeginRenderPass(&backend.RenderPassDescriptor{
		ColorAttachments: []backend.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	})
	if err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	defer cb.Release()
	if err := q.Submit(cb); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := q.Present(surf, tex); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		in   gputypes.Color
		want color.RGBA
	}{
		{gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}, color.RGBA{R: 26, G: 51, B: 77, A: 255}},
		{gputypes.Color{R: -1, G: 2, B: 0, A: 0.5}, color.RGBA{R: 0, G: 255, B: 0, A: 128}},
	}
	for _, tt := range tests {
		if got := ToRGBA(tt.in); got != tt.want {
			t.Errorf("ToRGBA(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClearPass_FillsEveryPixel(t *testing.T) {
	for _, format := range []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm} {
		b := New(WithSurfaceFormats(format), WithSwapChainLength(1))
		surf, dev, q := setup(t, b)

		c := gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}
		clearFrame(t, surf, dev, q, c)

		img := surf.Frame()
		if img == nil {
			t.Fatal("Frame() = nil after present")
		}
		want := ToRGBA(c)
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				if got := img.RGBAAt(x, y); got != want {
					t.Fatalf("format %v: pixel (%d,%d) = %v, want %v", format, x, y, got, want)
				}
			}
		}
		if surf.Presented() != 1 {
			t.Errorf("Presented() = %d, want 1", surf.Presented())
		}
		if live := b.Live(); live.Transient() {
			t.Errorf("per-frame resources leaked: %+v", live)
		}
	}
}

func TestSwapChain_UndefinedBeforeClear(t *testing.T) {
	surf, _, q := setup(t, New())
	tex, err := surf.AcquireTexture()
	if err != nil {
		t.Fatalf("AcquireTexture() error = %v", err)
	}
	if err := q.Present(surf, tex); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got := surf.Frame().Pix[0]; got != garbage {
		t.Errorf("uncleared pixel byte = %#x, want %#x", got, garbage)
	}
}

func TestRequestAdapter_RejectsFallback(t *testing.T) {
	b := New(WithAdapters(backend.AdapterInfo{Name: "llvmpipe", Fallback: true}))
	inst, _ := b.CreateInstance(nil)
	defer inst.Destroy()

	if _, err := inst.RequestAdapter(&backend.AdapterOptions{}); !errors.Is(err, backend.ErrNoAdapter) {
		t.Errorf("RequestAdapter() error = %v, want ErrNoAdapter", err)
	}
	a, err := inst.RequestAdapter(&backend.AdapterOptions{ForceFallbackAdapter: true})
	if err != nil {
		t.Fatalf("RequestAdapter(force fallback) error = %v", err)
	}
	if a.Info().Name != "llvmpipe" {
		t.Errorf("adapter = %q, want llvmpipe", a.Info().Name)
	}
}

func TestRequestAdapter_HighPerformancePrefersDiscrete(t *testing.T) {
	b := New(WithAdapters(
		backend.AdapterInfo{Name: "igpu", DeviceType: gputypes.DeviceTypeIntegratedGPU},
		backend.AdapterInfo{Name: "dgpu", DeviceType: gputypes.DeviceTypeDiscreteGPU},
	))
	inst, _ := b.CreateInstance(nil)
	defer inst.Destroy()

	a, err := inst.RequestAdapter(&backend.AdapterOptions{PowerPreference: gputypes.PowerPreferenceHighPerformance})
	if err != nil {
		t.Fatalf("RequestAdapter() error = %v", err)
	}
	if a.Info().Name != "dgpu" {
		t.Errorf("adapter = %q, want dgpu", a.Info().Name)
	}
	a, _ = inst.RequestAdapter(nil)
	if a.Info().Name != "igpu" {
		t.Errorf("adapter without preference = %q, want igpu", a.Info().Name)
	}
}

func TestCreateInstance_ExcludedFamily(t *testing.T) {
	_, err := New().CreateInstance(&backend.InstanceDescriptor{Backends: backend.BackendsVulkan})
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("CreateInstance(vulkan only) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestFaults_Acquire(t *testing.T) {
	faults := NewFaults()
	b := New(WithFaults(faults))
	surf, dev, q := setup(t, b)

	faults.Inject(OpAcquire, backend.ErrSurfaceLost, nil, backend.ErrOutOfMemory)

	if _, err := surf.AcquireTexture(); !errors.Is(err, backend.ErrSurfaceLost) {
		t.Errorf("first acquire error = %v, want ErrSurfaceLost", err)
	}
	clearFrame(t, surf, dev, q, gputypes.Color{A: 1})
	if _, err := surf.AcquireTexture(); !errors.Is(err, backend.ErrOutOfMemory) {
		t.Errorf("third acquire error = %v, want ErrOutOfMemory", err)
	}
	if got := faults.Calls(OpAcquire); got != 3 {
		t.Errorf("Calls(acquire) = %d, want 3", got)
	}
	if got := faults.Pending(OpAcquire); got != 0 {
		t.Errorf("Pending(acquire) = %d, want 0", got)
	}
}

func TestAcquire_Unconfigured(t *testing.T) {
	surf, dev, _ := setup(t, New())
	surf.Unconfigure(dev)
	if _, err := surf.AcquireTexture(); !errors.Is(err, backend.ErrNotConfigured) {
		t.Errorf("AcquireTexture() error = %v, want ErrNotConfigured", err)
	}
}

func TestAcquire_OneAtATime(t *testing.T) {
	surf, _, _ := setup(t, New())
	tex, err := surf.AcquireTexture()
	if err != nil {
		t.Fatalf("AcquireTexture() error = %v", err)
	}
	if _, err := surf.AcquireTexture(); !errors.Is(err, backend.ErrSurfaceTimeout) {
		t.Errorf("second AcquireTexture() error = %v, want ErrSurfaceTimeout", err)
	}
	tex.Release()
	if _, err := surf.AcquireTexture(); err != nil {
		t.Errorf("AcquireTexture() after release error = %v", err)
	}
}

func TestConfigure_Validation(t *testing.T) {
	surf, dev, _ := setup(t, New())
	tests := []struct {
		name string
		cfg  backend.SurfaceConfiguration
	}{
		{"zero width", backend.SurfaceConfiguration{Usage: gputypes.TextureUsageRenderAttachment, Format: gputypes.TextureFormatBGRA8Unorm, Height: 1}},
		{"bad format", backend.SurfaceConfiguration{Usage: gputypes.TextureUsageRenderAttachment, Format: gputypes.TextureFormatR8Unorm, Width: 1, Height: 1}},
		{"no render usage", backend.SurfaceConfiguration{Format: gputypes.TextureFormatBGRA8Unorm, Width: 1, Height: 1}},
		{"bad present mode", backend.SurfaceConfiguration{Usage: gputypes.TextureUsageRenderAttachment, Format: gputypes.TextureFormatBGRA8Unorm, Width: 1, Height: 1, PresentMode: backend.PresentModeFifoRelaxed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := surf.Configure(dev, &tt.cfg); err == nil {
				t.Error("Configure() error = nil, want error")
			}
		})
	}
	if got := surf.Configures(); got != 1 {
		t.Errorf("Configures() = %d, want 1", got)
	}
}

func TestEncoder_FinishWithOpenPass(t *testing.T) {
	surf, dev, _ := setup(t, New())
	tex, _ := surf.AcquireTexture()
	defer tex.Release()
	view, _ := tex.CreateView(nil)
	defer view.Release()

	enc, _ := dev.CreateCommandEncoder("open")
	defer enc.Release()
	pass, err := enc.BeginRenderPass(&backend.RenderPassDescriptor{
		ColorAttachments: []backend.RenderPassColorAttachment{{View: view, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore}},
	})
	if err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if _, err := enc.BeginRenderPass(&backend.RenderPassDescriptor{}); err == nil {
		t.Error("second BeginRenderPass() should fail while a pass is open")
	}
	if _, err := enc.Finish(); !errors.Is(err, backend.ErrPassOpen) {
		t.Errorf("Finish() error = %v, want ErrPassOpen", err)
	}
	_ = pass.End()
	if _, err := enc.Finish(); err != nil {
		t.Errorf("Finish() after End error = %v", err)
	}
}

func TestLive_ReleasesOnDestroy(t *testing.T) {
	b := New()
	inst, _ := b.CreateInstance(nil)
	surf, _ := inst.CreateSurface(&fakeWindow{w: 1, h: 1})
	a, _ := inst.RequestAdapter(nil)
	dev, _, _ := a.RequestDevice(nil)

	if got := b.Live(); got.Instances != 1 || got.Surfaces != 1 || got.Devices != 1 {
		t.Errorf("Live() = %+v, want one instance, surface and device", got)
	}
	surf.Destroy()
	dev.Destroy()
	inst.Destroy()
	inst.Destroy()
	if got := b.Live(); got != (Counts{}) {
		t.Errorf("Live() after destroy = %+v, want zero", got)
	}
}

func TestRegistered(t *testing.T) {
	b := backend.Get(backend.BackendSoftware)
	if b == nil {
		t.Fatal("software backend not registered")
	}
	if b.Name() != backend.BackendSoftware {
		t.Errorf("Name() = %q, want %q", b.Name(), backend.BackendSoftware)
	}
}
