// Package telemetry publishes readings to an MQTT broker while the radio is
// up.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"wxdisplay/internal/config"
)

const (
	publishTimeout = 5 * time.Second
	connectTimeout = 10 * time.Second
	tokenPoll      = 200 * time.Millisecond
	quiesceMillis  = 250
)

func Topic(stationID string) string {
	return fmt.Sprintf("stations/%s/telemetry", stationID)
}

// session is one connect, publish, disconnect round trip. The radio sleeps
// between fetch cycles, so nothing is kept open and paho never reconnects.
type session struct {
	client mqtt.Client
	broker string
	logger *slog.Logger
}

func dial(ctx context.Context, cfg config.Config, logger *slog.Logger) (*session, error) {
	if cfg.MQTTBroker == "" {
		return nil, fmt.Errorf("MQTT_BROKER is not set")
	}
	broker := fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(cfg.MQTTClientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(connectTimeout)

	s := &session{client: mqtt.NewClient(opts), broker: broker, logger: logger}
	if err := wait(ctx, s.client.Connect()); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	logger.Debug("mqtt connected", "broker", broker)
	return s, nil
}

// wait blocks until tok completes or ctx is done.
func wait(ctx context.Context, tok mqtt.Token) error {
	for !tok.WaitTimeout(tokenPoll) {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return tok.Error()
}

func (s *session) publish(ctx context.Context, t Telemetry) error {
	data, err := encode(t)
	if err != nil {
		return err
	}
	topic := Topic(t.StationID)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := wait(ctx, s.client.Publish(topic, 1, false, data)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	s.logger.Debug("published telemetry", "topic", topic, "cycle_id", t.CycleID)
	return nil
}

func (s *session) close() {
	s.client.Disconnect(quiesceMillis)
}

// encode stamps a zero Timestamp with the current time.
func encode(t Telemetry) ([]byte, error) {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal telemetry: %w", err)
	}
	return data, nil
}
