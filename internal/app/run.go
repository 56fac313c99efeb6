package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"wxdisplay/internal/button"
	"wxdisplay/internal/clock"
	"wxdisplay/internal/config"
	"wxdisplay/internal/display"
	"wxdisplay/internal/journal"
	"wxdisplay/internal/telemetry"
	"wxdisplay/internal/weather"
	"wxdisplay/internal/wifi"
)

// Run wires the hardware and outputs selected by cfg and runs the display
// loop until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("initializing wxdisplay",
		"display_driver", cfg.DisplayDriver,
		"radio_driver", cfg.RadioDriver,
		"button_driver", cfg.ButtonDriver,
		"weather_base_url", cfg.WeatherBaseURL,
		"refresh_interval", cfg.RefreshInterval,
		"mqtt_broker", cfg.MQTTBroker,
		"journal_path", cfg.JournalPath,
	)

	if err := cfg.ValidateWiFi(); err != nil {
		return err
	}

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

	btn, err := button.Open(cfg)
	if err != nil {
		return err
	}

	radio, err := wifi.OpenRadio(cfg)
	if err != nil {
		return err
	}

	clk := clock.Real{}
	ts := weather.NTPTimeSource{
		Server:   cfg.NTPServer,
		Offset:   cfg.UTCOffset,
		Timeout:  cfg.HTTPTimeout,
		Fallback: clk,
	}

	wx := weather.NewClient(weather.OptionsFromConfig(cfg), ts)
	slog.Info("weather source", "url", wx.URL())

	var repo journal.Repository = journal.Nop{}
	if cfg.JournalPath != "" {
		db, err := journal.Open(cfg.JournalPath, slog.Default())
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Close(db); err != nil {
				slog.Warn("journal close failed", "err", err)
			}
		}()
		if err := journal.Migrate(ctx, db); err != nil {
			return fmt.Errorf("journal migrate: %w", err)
		}
		repo = journal.NewRepository(db)
	}

	a := New(Deps{
		Sink:      canvas,
		Button:    btn,
		Network:   wifi.NewManager(radio, canvas, clk, wifi.OptionsFromConfig(cfg)),
		Weather:   wx,
		Clock:     clk,
		Publisher: telemetry.NewPublisher(cfg, slog.Default()),
		Journal:   repo,
		StationID: cfg.StationID,
		NewID:     uuid.NewString,
	}, OptionsFromConfig(cfg))

	err = a.Run(ctx)
	slog.Info("wxdisplay shutting down")
	return err
}
