// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Backends is a bit set of GPU backend families.
type Backends uint32

// Backend families.
const (
	BackendsVulkan Backends = 1 << iota
	BackendsMetal
	BackendsDX12
	BackendsGL
	BackendsSoftware

	// BackendsPrimary selects the first-class native APIs.
	BackendsPrimary = BackendsVulkan | BackendsMetal | BackendsDX12
	// BackendsAll selects every family.
	BackendsAll = BackendsPrimary | BackendsGL | BackendsSoftware
)

// Has reports whether b contains every family in other.
func (b Backends) Has(other Backends) bool {
	return b&other == other
}

// InstanceDescriptor configures instance creation.
type InstanceDescriptor struct {
	// Backends restricts the families the instance may use.
	// Zero means BackendsAll.
	Backends Backends
}

// AdapterOptions configures adapter selection.
type AdapterOptions struct {
	// PowerPreference hints which GPU to pick when several are present.
	PowerPreference gputypes.PowerPreference

	// ForceFallbackAdapter allows (and requires) a software fallback
	// adapter. When false, fallback adapters are never returned.
	ForceFallbackAdapter bool

	// CompatibleSurface, if set, restricts selection to adapters that can
	// present to the surface.
	CompatibleSurface Surface
}

// AdapterInfo describes an adapter.
type AdapterInfo struct {
	Name       string
	Vendor     string
	Driver     string
	Backend    string
	DeviceType gputypes.DeviceType

	// Fallback reports a software fallback implementation of a hardware
	// API (e.g., llvmpipe, WARP).
	Fallback bool
}

// String returns a short human-readable description.
func (i AdapterInfo) String() string {
	if i.Backend == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s)", i.Name, i.Backend)
}

// DeviceDescriptor configures device creation.
type DeviceDescriptor struct {
	Label string

	// RequiredFeatures must all be supported by the adapter.
	RequiredFeatures gputypes.Features
}

// PresentMode controls how presented frames are synchronized with the
// display.
type PresentMode uint8

// Present modes.
const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota
	// PresentModeFifoRelaxed is like Fifo but tears when a frame is late.
	PresentModeFifoRelaxed
	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

var presentModeNames = [...]string{
	PresentModeFifo:        "fifo",
	PresentModeFifoRelaxed: "fifo-relaxed",
	PresentModeMailbox:     "mailbox",
	PresentModeImmediate:   "immediate",
}

// String returns the lower-case name of the mode.
func (m PresentMode) String() string {
	if int(m) < len(presentModeNames) {
		return presentModeNames[m]
	}
	return fmt.Sprintf("PresentMode(%d)", m)
}

// ParsePresentMode parses a present mode name as returned by String.
// Matching is case-insensitive and "vsync" is accepted for fifo.
func ParsePresentMode(s string) (PresentMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "vsync" {
		return PresentModeFifo, nil
	}
	for i, name := range presentModeNames {
		if s == name {
			return PresentMode(i), nil
		}
	}
	return 0, fmt.Errorf("backend: unknown present mode %q", s)
}

// AlphaMode controls how the compositor blends the surface.
type AlphaMode uint8

// Alpha modes.
const (
	AlphaModeAuto AlphaMode = iota
	AlphaModeOpaque
	AlphaModePremultiplied
	AlphaModeUnpremultiplied
	AlphaModeInherit
)

// SurfaceCapabilities lists what an adapter supports for a surface.
type SurfaceCapabilities struct {
	// Formats are the supported texture formats, preferred first.
	Formats      []gputypes.TextureFormat
	PresentModes []PresentMode
	AlphaModes   []AlphaMode
}

// SupportsPresentMode reports whether mode is listed.
func (c *SurfaceCapabilities) SupportsPresentMode(mode PresentMode) bool {
	for _, m := range c.PresentModes {
		if m == mode {
			return true
		}
	}
	return false
}

// SurfaceConfiguration describes a swap chain.
type SurfaceConfiguration struct {
	Usage       gputypes.TextureUsage
	Format      gputypes.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode PresentMode
	AlphaMode   AlphaMode
}

// TextureViewDescriptor configures a texture view.
type TextureViewDescriptor struct {
	Label string
}

// RenderPassColorAttachment describes one color target of a render pass.
type RenderPassColorAttachment struct {
	View          TextureView
	ResolveTarget TextureView
	LoadOp        gputypes.LoadOp
	StoreOp       gputypes.StoreOp
	ClearValue    gputypes.Color
}

// RenderPassDescriptor configures a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []RenderPassColorAttachment
}
