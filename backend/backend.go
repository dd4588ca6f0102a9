// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

// Backend name constants.
const (
	// BackendSoftware is the name of the pure Go reference backend.
	BackendSoftware = "software"
	// BackendNative is the name of the gogpu/wgpu HAL backend.
	BackendNative = "native"
)

// Backend creates GPU instances. It is the entry point of a rendering
// implementation and is usually obtained from the registry.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// CreateInstance creates a new instance restricted to the given
	// backend families. A nil descriptor selects all families.
	CreateInstance(desc *InstanceDescriptor) (Instance, error)
}

// WindowTarget is the window a surface presents to.
//
// Implementations must report the current physical pixel size and a stable
// identity that events addressed to the window carry.
type WindowTarget interface {
	// ID returns the stable identity of the window.
	ID() uint64

	// Size returns the current physical (framebuffer) size in pixels.
	Size() (width, height uint32)
}

// NativeWindow is implemented by window targets backed by a real platform
// window. Hardware backends need the native handles to create a surface.
type NativeWindow interface {
	WindowTarget

	// NativeHandles returns the platform display (or instance) handle and
	// the window handle.
	NativeHandles() (display, window uintptr, err error)
}

// Instance is a connection to one or more GPU backend families.
type Instance interface {
	// CreateSurface creates a presentation surface bound to target.
	//
	// The surface holds an implicit borrow on the window: the caller must
	// destroy the surface before the window is destroyed.
	CreateSurface(target WindowTarget) (Surface, error)

	// RequestAdapter returns an adapter matching opts, or ErrNoAdapter.
	RequestAdapter(opts *AdapterOptions) (Adapter, error)

	// Destroy releases the instance.
	Destroy()
}

// Adapter represents one physical or logical GPU.
type Adapter interface {
	// Info describes the adapter.
	Info() AdapterInfo

	// SurfaceCapabilities reports the formats, present modes and alpha
	// modes the adapter supports for surface. The first format is the
	// preferred one.
	SurfaceCapabilities(surface Surface) (*SurfaceCapabilities, error)

	// RequestDevice opens a logical device and its command queue.
	RequestDevice(desc *DeviceDescriptor) (Device, Queue, error)

	// Destroy releases the adapter.
	Destroy()
}

// Device is a logical connection to an adapter.
//
// Device satisfies gpucontext.Device.
type Device interface {
	// CreateCommandEncoder opens a command recording scope.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Poll processes completed GPU work. If wait is true it blocks until
	// all submitted work is done.
	Poll(wait bool)

	// Destroy releases the device. Its queue becomes invalid.
	Destroy()
}

// Queue submits command buffers and presents surface textures.
type Queue interface {
	// Submit submits the command buffers as one batch.
	Submit(buffers ...CommandBuffer) error

	// Present shows tex on surface. tex must not be used afterwards.
	Present(surface Surface, tex SurfaceTexture) error
}

// Surface is a presentation target bound to one window.
type Surface interface {
	// Configure (re)creates the swap chain for cfg on device.
	Configure(device Device, cfg *SurfaceConfiguration) error

	// Unconfigure releases the swap chain. The surface can be configured
	// again afterwards.
	Unconfigure(device Device)

	// AcquireTexture returns the next presentable texture. Failures are
	// reported as ErrSurfaceLost, ErrSurfaceOutdated, ErrSurfaceTimeout
	// or ErrOutOfMemory (possibly wrapped).
	AcquireTexture() (SurfaceTexture, error)

	// Destroy releases the surface.
	Destroy()
}

// SurfaceTexture is one presentable image acquired from a Surface.
type SurfaceTexture interface {
	// CreateView creates a view of the texture. A nil descriptor creates
	// a default full view.
	CreateView(desc *TextureViewDescriptor) (TextureView, error)

	// Release discards the texture without presenting it. It is a no-op
	// after a successful Present.
	Release()
}

// TextureView is a view of a texture usable as a render attachment.
type TextureView interface {
	Release()
}

// CommandEncoder records GPU commands into a CommandBuffer.
type CommandEncoder interface {
	// BeginRenderPass starts a render pass. Only one pass may be open at a
	// time and it must be ended before Finish.
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPass, error)

	// Finish ends recording and returns the submittable command buffer.
	Finish() (CommandBuffer, error)

	// Release discards the encoder. It is a no-op after Finish.
	Release()
}

// RenderPass is an open render pass. It exposes no draw commands: the only
// work a pass performs is its attachments' load and store operations.
type RenderPass interface {
	// End closes the pass and releases its hold on the encoder.
	End() error
}

// CommandBuffer is a finished, submittable command sequence.
type CommandBuffer interface {
	Release()
}
