// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package clearpass opens a window, negotiates a GPU device for it and
// clears the window to a fixed color on every frame.
//
// # Overview
//
// clearpass is the smallest complete GPU presentation loop: an adapter and
// device bound to a window, a swap surface that follows the window's size,
// and one render pass per frame that clears the surface. It is built on
// the HAL-neutral interfaces in package backend, so the same loop runs on
// real hardware (backend/native) and in memory (backend/software).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/clearpass"
//	    "github.com/gogpu/clearpass/backend"
//	    _ "github.com/gogpu/clearpass/backend/software"
//	    "github.com/gogpu/clearpass/window/headless"
//	)
//
//	drv := headless.New(800, 600, headless.WithFrames(3))
//	app, err := clearpass.NewApp(ctx, backend.Default(), drv.Window())
//	if err != nil {
//	    return err
//	}
//	defer app.Close()
//
//	err = clearpass.Run(ctx, app, drv)
//
// # Frame Errors
//
// Every frame result is classified (see render.Classify) and mapped to a
// Decision by [Decide]:
//
//   - Success: continue
//   - Lost: reconfigure the surface with its current size
//   - OutOfMemory: terminate with [ErrOutOfMemory]
//   - Transient: continue and retry on the next frame (or terminate under
//     [TransientExit])
//   - Fatal: terminate with the frame error
//
// # Architecture
//
//   - backend: GPU interfaces, descriptors, errors and backend registry
//   - gpu: instance, adapter, device and queue negotiation
//   - surface: swap surface configuration and resize handling
//   - render: the per-frame clear pass and error classification
//   - window/headless, window/desktop: event loop drivers
//
// # Threading
//
// An App is driven from a single goroutine. The only concurrent work is
// the device negotiation inside gpu.Create, which completes before NewApp
// returns.
package clearpass

// Version is the current version of the module.
const Version = "0.1.0"
