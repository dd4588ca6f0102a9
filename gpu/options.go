// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
)

// Option configures Create.
type Option func(*options)

type options struct {
	backends    backend.Backends
	power       gputypes.PowerPreference
	features    gputypes.Features
	deviceLabel string
}

func defaultOptions() options {
	return options{
		backends:    backend.BackendsAll,
		power:       gputypes.PowerPreferenceHighPerformance,
		deviceLabel: "clearpass device",
	}
}

// WithBackends restricts the backend families the instance may use.
func WithBackends(b backend.Backends) Option {
	return func(o *options) {
		o.backends = b
	}
}

// WithPowerPreference sets the adapter power preference.
// The default is high performance.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithRequiredFeatures requests optional device features.
func WithRequiredFeatures(f gputypes.Features) Option {
	return func(o *options) {
		o.features = f
	}
}

// WithDeviceLabel sets the device debug label.
func WithDeviceLabel(label string) Option {
	return func(o *options) {
		o.deviceLabel = label
	}
}
