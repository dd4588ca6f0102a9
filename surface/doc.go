// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface manages the presentable surface of one window and its
// swap configuration.
//
// # Lifecycle
//
//	st, err := surface.Initialize(gc, window, surface.Size{Width: w, Height: h})
//	if err != nil {
//	    return err
//	}
//	defer st.Release() // before the window is destroyed
//
//	// On every resize notification, and to recover a lost surface:
//	st.Reconfigure(surface.Size{Width: newW, Height: newH})
//
// Reconfigure is a single state transition used for both resize events and
// error recovery. A size with a zero dimension is ignored and the last
// valid configuration is kept.
//
// # Window Lifetime
//
// A State is bound to one window target for its whole life. The caller
// must keep the window alive until Release has returned; this is not
// checked. Re-creating the window invalidates the State.
package surface
