// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"flag"
	"io"

	"github.com/gogpu/clearpass/internal/config"
)

// parseConfig loads the configuration file and applies the flags that
// were set on top of it.
func parseConfig(args []string, stderr io.Writer) (config.Config, error) {
	def := config.Default()

	fs := flag.NewFlagSet("clearpass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		path      = fs.String("config", "", "TOML config file")
		backendNm = fs.String("backend", def.GPU.Backend, "backend: auto, native or software")
		width     = fs.Int("width", def.Window.Width, "window width in pixels")
		height    = fs.Int("height", def.Window.Height, "window height in pixels")
		title     = fs.String("title", def.Window.Title, "window title")
		offscreen = fs.Bool("headless", def.Headless.Enabled, "render offscreen without a window")
		frames    = fs.Int("frames", def.Headless.Frames, "headless frame budget (0 = unlimited)")
		output    = fs.String("output", def.Headless.Output, "write the last headless frame (.png, .bmp, .tif)")
		present   = fs.String("present-mode", def.GPU.PresentMode, "fifo, fifo-relaxed, mailbox or immediate")
		transient = fs.String("transient", def.Render.TransientPolicy, "transient frame errors: retry or exit")
		clearHex  = fs.String("clear", def.Render.ClearColor, "clear color as hex (default rgb 0.1, 0.2, 0.3)")
		verbose   = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.GPU.Backend = *backendNm
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "title":
			cfg.Window.Title = *title
		case "headless":
			cfg.Headless.Enabled = *offscreen
		case "frames":
			cfg.Headless.Frames = *frames
		case "output":
			cfg.Headless.Output = *output
		case "present-mode":
			cfg.GPU.PresentMode = *present
		case "transient":
			cfg.Render.TransientPolicy = *transient
		case "clear":
			cfg.Render.ClearColor = *clearHex
		case "v":
			if *verbose {
				cfg.Log.Level = "debug"
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
