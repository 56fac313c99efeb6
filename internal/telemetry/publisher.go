package telemetry

import (
	"context"
	"log/slog"

	"wxdisplay/internal/config"
)

// Publisher sends one reading per call.
type Publisher interface {
	Publish(ctx context.Context, t Telemetry) error
}

// NewPublisher returns an MQTT publisher, or a no-op one when no broker is
// configured.
func NewPublisher(cfg config.Config, logger *slog.Logger) Publisher {
	if cfg.MQTTBroker == "" {
		return Nop{}
	}
	return &MQTTPublisher{cfg: cfg, logger: logger}
}

type Nop struct{}

func (Nop) Publish(context.Context, Telemetry) error { return nil }

// MQTTPublisher opens a fresh session for every Publish and closes it
// before returning.
type MQTTPublisher struct {
	cfg    config.Config
	logger *slog.Logger
}

func (p *MQTTPublisher) Publish(ctx context.Context, t Telemetry) error {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	s, err := dial(dialCtx, p.cfg, p.logger)
	if err != nil {
		return err
	}
	defer s.close()
	return s.publish(ctx, t)
}
