// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows && !(linux && (amd64 || arm64) && !cgo)

package desktop

// Supported reports whether this build has window system support.
const Supported = false

func openPlatform(Config) (platform, error) { return nil, ErrUnavailable }
