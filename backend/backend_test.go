// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestBackends_Has(t *testing.T) {
	if !BackendsAll.Has(BackendsVulkan) {
		t.Error("BackendsAll should contain Vulkan")
	}
	if !BackendsAll.Has(BackendsSoftware) {
		t.Error("BackendsAll should contain Software")
	}
	if BackendsPrimary.Has(BackendsGL) {
		t.Error("BackendsPrimary should not contain GL")
	}
	if !BackendsPrimary.Has(BackendsVulkan | BackendsMetal) {
		t.Error("BackendsPrimary should contain Vulkan|Metal")
	}
}

func TestPresentMode_String(t *testing.T) {
	tests := []struct {
		mode PresentMode
		want string
	}{
		{PresentModeFifo, "fifo"},
		{PresentModeFifoRelaxed, "fifo-relaxed"},
		{PresentModeMailbox, "mailbox"},
		{PresentModeImmediate, "immediate"},
		{PresentMode(42), "PresentMode(42)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("PresentMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParsePresentMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PresentMode
		wantErr bool
	}{
		{"fifo", PresentModeFifo, false},
		{"VSync", PresentModeFifo, false},
		{" mailbox ", PresentModeMailbox, false},
		{"Immediate", PresentModeImmediate, false},
		{"fifo-relaxed", PresentModeFifoRelaxed, false},
		{"triple", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePresentMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePresentMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePresentMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSurfaceCapabilities_SupportsPresentMode(t *testing.T) {
	caps := &SurfaceCapabilities{PresentModes: []PresentMode{PresentModeFifo, PresentModeMailbox}}
	if !caps.SupportsPresentMode(PresentModeMailbox) {
		t.Error("mailbox should be supported")
	}
	if caps.SupportsPresentMode(PresentModeImmediate) {
		t.Error("immediate should not be supported")
	}
}

func TestAdapterInfo_String(t *testing.T) {
	if got := (AdapterInfo{Name: "GPU"}).String(); got != "GPU" {
		t.Errorf("String() = %q, want %q", got, "GPU")
	}
	if got := (AdapterInfo{Name: "GPU", Backend: "vulkan"}).String(); got != "GPU (vulkan)" {
		t.Errorf("String() = %q, want %q", got, "GPU (vulkan)")
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("acquire: %w", ErrSurfaceLost)
	if !errors.Is(err, ErrSurfaceLost) {
		t.Error("wrapped ErrSurfaceLost should match errors.Is")
	}
	if errors.Is(err, ErrSurfaceOutdated) {
		t.Error("ErrSurfaceLost should not match ErrSurfaceOutdated")
	}
}

func TestLogger_DefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output = %q, want it to contain %q", buf.String(), "hello")
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore a silent logger")
	}
}
