// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the clearpass command configuration from defaults,
// an optional TOML file and CLEARPASS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/clearpass/backend"
	"github.com/gogpu/gputypes"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CLEARPASS_WINDOW_WIDTH.
const EnvPrefix = "CLEARPASS"

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("config: invalid")

// Config holds the command configuration.
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	GPU      GPUConfig      `mapstructure:"gpu"`
	Render   RenderConfig   `mapstructure:"render"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Log      LogConfig      `mapstructure:"log"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// GPUConfig holds backend and adapter settings.
type GPUConfig struct {
	// Backend is a registered backend name, or "auto".
	Backend         string `mapstructure:"backend"`
	PowerPreference string `mapstructure:"power_preference"`
	PresentMode     string `mapstructure:"present_mode"`
}

// RenderConfig holds frame loop settings.
type RenderConfig struct {
	// ClearColor is a hex color. Empty selects the default clear color.
	ClearColor      string `mapstructure:"clear_color"`
	Continuous      bool   `mapstructure:"continuous"`
	TransientPolicy string `mapstructure:"transient_policy"`
}

// HeadlessConfig holds offscreen run settings.
type HeadlessConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Frames is the redraw budget. Zero means no budget.
	Frames int `mapstructure:"frames"`
	// Output is an image path (.png, .bmp, .tif) written after the run.
	Output string `mapstructure:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.title", "clearpass")
	v.SetDefault("gpu.backend", "auto")
	v.SetDefault("gpu.power_preference", "high-performance")
	v.SetDefault("gpu.present_mode", "fifo")
	v.SetDefault("render.clear_color", "")
	v.SetDefault("render.continuous", true)
	v.SetDefault("render.transient_policy", "retry")
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.frames", 0)
	v.SetDefault("headless.output", "")
	v.SetDefault("log.level", "info")
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// Load reads the configuration. path selects the TOML file; when empty,
// CLEARPASS_CONFIG is consulted, then $HOME/.config/clearpass/config.toml.
// An explicitly named file must exist; the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clearpass"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Headless.Frames < 0 {
		return fmt.Errorf("%w: headless.frames %d", ErrInvalid, c.Headless.Frames)
	}
	if _, err := c.GPU.Power(); err != nil {
		return err
	}
	if _, err := c.GPU.Present(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Render.Clear(); err != nil {
		return fmt.Errorf("%w: render.clear_color: %w", ErrInvalid, err)
	}
	if _, err := c.Render.Transient(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Power parses PowerPreference.
func (g GPUConfig) Power() (gputypes.PowerPreference, error) {
	switch strings.ToLower(g.PowerPreference) {
	case "", "high-performance", "high":
		return gputypes.PowerPreferenceHighPerformance, nil
	case "low-power", "low":
		return gputypes.PowerPreferenceLowPower, nil
	case "none":
		return gputypes.PowerPreferenceNone, nil
	}
	return 0, fmt.Errorf("%w: gpu.power_preference %q", ErrInvalid, g.PowerPreference)
}

// Present parses PresentMode.
func (g GPUConfig) Present() (backend.PresentMode, error) {
	if g.PresentMode == "" {
		return backend.PresentModeFifo, nil
	}
	return backend.ParsePresentMode(g.PresentMode)
}

// Clear parses ClearColor, falling back to clearpass.ClearColor.
func (r RenderConfig) Clear() (clearpass.RGBA, error) {
	if r.ClearColor == "" {
		return clearpass.ClearColor, nil
	}
	return clearpass.ParseHex(r.ClearColor)
}

// Transient parses TransientPolicy.
func (r RenderConfig) Transient() (clearpass.TransientPolicy, error) {
	return clearpass.ParseTransientPolicy(r.TransientPolicy)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
}
