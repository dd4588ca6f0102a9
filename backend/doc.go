// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend defines the GPU abstraction that clearpass renders through.
//
// The interfaces in this package are deliberately narrow: they cover exactly
// what a window-backed clear pass needs (an instance, an adapter, a device and
// queue, a presentable surface, a command encoder with a render pass) and
// nothing more. Concrete implementations live in sub-packages:
//
//   - backend/software: a pure Go reference implementation with an in-memory
//     swap chain, used for headless runs and tests
//   - backend/native: an adapter over gogpu/wgpu HAL (Vulkan and others)
//
// # Backend Registration
//
// Backends register a factory from init() and are selected by name:
//
//	import _ "github.com/gogpu/clearpass/backend/software"
//
//	b := backend.Get(backend.BackendSoftware)
//
// Default returns the best registered backend, preferring hardware over
// software.
//
// # Resource Ownership
//
// Every object returned by a Create*, Request* or Acquire* call is owned by
// the caller and must be released with its Release or Destroy method. A
// RenderPass must be ended before its CommandEncoder is finished; Finish
// returns ErrPassOpen otherwise.
package backend
