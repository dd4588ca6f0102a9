// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Option configures Initialize.
type Option func(*options)

type options struct {
	presentMode backend.PresentMode
	format      gputypes.TextureFormat
	usage       gputypes.TextureUsage
}

func defaultOptions() options {
	return options{
		presentMode: backend.PresentModeFifo,
		format:      gputypes.TextureFormatUndefined,
		usage:       gputypes.TextureUsageRenderAttachment,
	}
}

// WithPresentMode requests a present mode. Unsupported modes fall back to
// PresentModeFifo, which every surface supports.
func WithPresentMode(m backend.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithFormat requests a pixel format instead of the adapter's preferred
// one. Unsupported formats are ignored.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithUsage adds usage flags on top of render attachment.
func WithUsage(u gputypes.TextureUsage) Option {
	return func(o *options) {
		o.usage |= u
	}
}
