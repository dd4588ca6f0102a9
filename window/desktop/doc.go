// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package desktop provides a native window and event loop driver without
// cgo.
//
// On Linux the window is an X11 window driven through libX11, loaded at
// run time with goffi. Such builds need CGO_ENABLED=0, the same as the
// native backend. Under a Wayland session the window runs on XWayland.
//
// On Windows the window is a Win32 window. Importing the package locks the
// main goroutine to its OS thread; create the Driver and call
// clearpass.Run from main.
//
// Elsewhere New fails with ErrUnavailable.
package desktop
