// Command mottrack runs the tracker against a video source, following the
// retrieved detection service's main.go shape: flag-configured TOML
// config, slog+tint logging, and an errgroup of cooperating goroutines
// shut down together on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldtrace/mot/config"
	"github.com/fieldtrace/mot/engine"
	"github.com/hybridgroup/mjpeg"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "./tracker.toml"

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", defaultConfigPath, "path to tracker.toml")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(cfgPath); err == nil {
		loaded, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			slog.Error("failed to load config, falling back to defaults", "path", cfgPath, "error", loadErr)
		} else {
			cfg = loaded
		}
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Engine.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
	}))
	slog.SetDefault(log)

	eng := engine.New(engine.Config{Detection: cfg.Detection, Association: cfg.Association}, log)
	defer func() {
		if err := eng.Close(); err != nil {
			log.Error("closing engine", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	supp := newSuppressState()
	stream := mjpeg.NewStream()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return runDisplay(egCtx, log, cfg.Stream, supp, stream)
	})

	eg.Go(func() error {
		return runCapture(egCtx, log, cfg, eng, supp, stream)
	})

	if err := eg.Wait(); err != nil && egCtx.Err() == nil {
		log.Error("tracker exited with error", "error", err)
		os.Exit(1)
	}
}
