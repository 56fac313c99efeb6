package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wxdisplay/internal/clock"
	"wxdisplay/internal/config"
	"wxdisplay/internal/demo"
	"wxdisplay/internal/display"
	"wxdisplay/internal/logging"
)

var version = "dev"
var appName = "bouncingball"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"display_driver", cfg.DisplayDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg config.Config) error {
	panel, err := display.OpenPanel(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := panel.Halt(); err != nil {
			slog.Warn("display halt failed", "err", err)
		}
	}()
	canvas := display.NewCanvas(panel)

	return demo.RunBall(ctx, canvas, clock.Real{})
}
