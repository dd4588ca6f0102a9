// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements the clearpass backend interfaces on top of the
// gogpu/wgpu hardware abstraction layer.
//
// Importing the package registers the "native" backend. It needs a window
// that exposes platform handles (see backend.NativeWindow) to create a
// surface; headless targets are rejected with backend.ErrUnsupportedTarget.
//
// Build with -tags nogpu to leave the backend out entirely.
package native
