// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command clearpass opens a window and clears it to a solid color every
// frame until the window is closed or Escape is pressed.
//
// With -headless it renders offscreen on the software backend, optionally
// for a fixed number of frames, and can write the last frame to an image:
//
//	clearpass -headless -frames 3 -output frame.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/clearpass"
	"github.com/gogpu/clearpass/backend"
	_ "github.com/gogpu/clearpass/backend/native"
	"github.com/gogpu/clearpass/backend/software"
	"github.com/gogpu/clearpass/internal/config"
	"github.com/gogpu/clearpass/internal/snapshot"
	"github.com/gogpu/clearpass/window/desktop"
	"github.com/gogpu/clearpass/window/headless"
)

// Exit codes.
const (
	exitOK      = 0
	exitStartup = 1
	exitOOM     = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// driver is a clearpass.Driver that owns its window.
type driver interface {
	clearpass.Driver
	Close()
}

type headlessDriver struct{ *headless.Driver }

func (headlessDriver) Close() {}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "clearpass: %v\n", err)
		return exitStartup
	}

	level, _ := cfg.Log.SlogLevel()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	clearpass.SetLogger(log)
	defer clearpass.SetLogger(nil)

	name := cfg.GPU.Backend
	if cfg.Headless.Enabled && (name == "" || name == "auto") {
		name = backend.BackendSoftware
	}
	b, err := backend.Lookup(name)
	if err != nil {
		log.Error("clearpass: backend", "error", err)
		return exitStartup
	}

	drv, err := openDriver(cfg)
	if err != nil {
		log.Error("clearpass: window", "error", err)
		return exitStartup
	}
	defer drv.Close()

	// Validated by parseConfig.
	clearColor, _ := cfg.Render.Clear()
	policy, _ := cfg.Render.Transient()
	mode, _ := cfg.GPU.Present()
	power, _ := cfg.GPU.Power()

	app, err := clearpass.NewApp(ctx, b, drv.Window(),
		clearpass.WithClearColor(clearColor),
		clearpass.WithTransientPolicy(policy),
		clearpass.WithPresentMode(mode),
		clearpass.WithPowerPreference(power),
		clearpass.WithContinuous(cfg.Render.Continuous),
	)
	if err != nil {
		log.Error("clearpass: startup", "backend", b.Name(), "error", err)
		return exitStartup
	}
	defer app.Close()

	err = clearpass.Run(ctx, app, drv)

	if cfg.Headless.Output != "" {
		writeSnapshot(log, app, cfg.Headless.Output)
	}

	switch {
	case errors.Is(err, clearpass.ErrOutOfMemory):
		return exitOOM
	case err != nil && !errors.Is(err, context.Canceled):
		log.Debug("clearpass: run ended", "error", err)
	}
	return exitOK
}

func openDriver(cfg config.Config) (driver, error) {
	if cfg.Headless.Enabled {
		d := headless.New(uint32(cfg.Window.Width), uint32(cfg.Window.Height),
			headless.WithFrames(cfg.Headless.Frames))
		return headlessDriver{d}, nil
	}
	return desktop.New(desktop.Config{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: true,
	})
}

func writeSnapshot(log *slog.Logger, app *clearpass.App, path string) {
	sw, ok := app.Surface().Surface().(*software.Surface)
	if !ok {
		log.Warn("clearpass: -output needs the software backend", "backend", app.GPU().BackendName())
		return
	}
	frame := sw.Frame()
	if frame == nil {
		log.Warn("clearpass: no frame presented, nothing written", "output", path)
		return
	}
	if err := snapshot.Save(path, frame); err != nil {
		log.Error("clearpass: write output", "error", err)
		return
	}
	log.Info("clearpass: frame written", "output", path, "size", frame.Rect.Size())
}
