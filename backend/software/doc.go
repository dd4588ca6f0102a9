// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a pure Go implementation of the backend
// interfaces.
//
// The software backend keeps its swap chain in memory. A clear pass is
// executed on the CPU when its command buffer is submitted, and presenting a
// texture copies it into the surface's front buffer, which can be read back
// with [Surface.Frame]. No GPU, driver or window system is required, which
// makes the backend suitable for headless runs and for tests.
//
// The backend registers itself under [backend.BackendSoftware]:
//
//	import _ "github.com/gogpu/clearpass/backend/software"
//
// Tests drive failure paths through [Faults], which queues errors for
// specific operations:
//
//	faults := software.NewFaults()
//	b := software.New(software.WithFaults(faults))
//	faults.Inject(software.OpAcquire, backend.ErrSurfaceLost)
package software
