// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu && (linux || windows)

package native

import _ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan HAL backend
