// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render records and submits one frame: a single render pass that
// clears the acquired surface texture to a fixed color.
//
// No draw calls exist in this package. The pass performs its work entirely
// through the color attachment's load (clear) and store operations.
//
// RenderFrame returns a *FrameError naming the failed stage. [Classify]
// turns any RenderFrame result into an [Outcome]:
//
//	err := r.RenderFrame(gc, st)
//	switch render.Classify(err) {
//	case render.Lost:
//	    st.Reconfigure(st.Size())
//	case render.OutOfMemory, render.Fatal:
//	    // terminate
//	}
package render
