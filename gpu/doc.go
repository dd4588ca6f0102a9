// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu negotiates the GPU objects a window needs to render: an
// instance, an adapter that can present to the window, a logical device and
// its queue.
//
// Negotiation is asynchronous. [Create] runs it on a separate goroutine and
// suspends the caller until it completes or the context is done:
//
//	gc, err := gpu.Create(ctx, backend.Default(), window)
//	if err != nil {
//	    // gpu.IsFatal(err) is true for adapter and device failures.
//	    return err
//	}
//	defer gc.Release()
//
// Software fallback adapters are never selected. A failure to find an
// adapter or open a device is an unrecoverable startup error and is not
// retried.
//
// The surface created during negotiation is kept by the Context until the
// surface package claims it with [Context.TakeSurface].
package gpu
