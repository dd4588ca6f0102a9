// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package desktop

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by New when this build has no window system
// support, or when the window system library cannot be loaded.
var ErrUnavailable = errors.New("desktop: windowing not available in this build")

// ErrNoHandles is returned by Window.NativeHandles when the platform has no
// supported surface handles.
var ErrNoHandles = errors.New("desktop: no native surface handles on this platform")

// Config describes the window to open.
type Config struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// DefaultConfig returns an 800x600 resizable window titled "clearpass".
func DefaultConfig() Config {
	return Config{Title: "clearpass", Width: 800, Height: 600, Resizable: true}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("desktop: invalid window size %dx%d", c.Width, c.Height)
	}
	return nil
}
