package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"wxdisplay/internal/config"
	"wxdisplay/internal/weather"
)

func TestFromReading(t *testing.T) {
	r := weather.Reading{
		TemperatureC:     21.4,
		FeelsLikeC:       22.1,
		HumidityPct:      63,
		PressureHPa:      1008.7,
		WindSpeedKPH:     36,
		WindDirectionDeg: 90,
		CloudCoverPct:    0,
		PrecipitationMM:  0,
		Updated:          "12:07",
	}
	at := time.Date(2024, 6, 1, 3, 7, 0, 0, time.UTC)

	got := FromReading("attic", "c-1", r, at)

	if got.StationID != "attic" || got.CycleID != "c-1" || !got.Timestamp.Equal(at) {
		t.Errorf("ids = %q %q %v", got.StationID, got.CycleID, got.Timestamp)
	}
	if got.WindSpeed == nil || *got.WindSpeed != 10 {
		t.Errorf("WindSpeed = %v; want 10 m/s", got.WindSpeed)
	}
	if got.WindCompass != "E" {
		t.Errorf("WindCompass = %q; want %q", got.WindCompass, "E")
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// zero values are still readings and must be sent
	for _, key := range []string{`"cloud_cover_pct":0`, `"precipitation_mm":0`, `"temperature_c":21.4`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("payload %s missing %s", data, key)
		}
	}
}

func TestTopic(t *testing.T) {
	if got := Topic("home"); got != "stations/home/telemetry" {
		t.Errorf("Topic() = %q; want %q", got, "stations/home/telemetry")
	}
}

func TestNewPublisher_NopWithoutBroker(t *testing.T) {
	p := NewPublisher(config.Config{}, nil)
	if _, ok := p.(Nop); !ok {
		t.Fatalf("NewPublisher() = %T; want Nop", p)
	}
	if err := p.Publish(context.Background(), Telemetry{}); err != nil {
		t.Errorf("Nop.Publish() error = %v", err)
	}
}

func TestEncode_StampsZeroTimestamp(t *testing.T) {
	data, err := encode(Telemetry{StationID: "home"})
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	var got Telemetry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Timestamp.IsZero() {
		t.Errorf("Timestamp is zero; want now")
	}

	at := time.Date(2024, 6, 1, 3, 7, 0, 0, time.UTC)
	data, err = encode(Telemetry{StationID: "home", Timestamp: at})
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	if !strings.Contains(string(data), `"timestamp":"2024-06-01T03:07:00Z"`) {
		t.Errorf("payload %s lost the given timestamp", data)
	}
}

func TestMQTTPublisher_UnreachableBroker(t *testing.T) {
	cfg := config.Config{MQTTBroker: "127.0.0.1", MQTTPort: 1, MQTTClientID: "wxdisplay-test"}
	p := NewPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, ok := p.(*MQTTPublisher); !ok {
		t.Fatalf("NewPublisher() = %T; want *MQTTPublisher", p)
	}
	if err := p.Publish(context.Background(), Telemetry{StationID: "home"}); err == nil {
		t.Fatal("Publish() error = nil; want connect error")
	}
}

func TestMQTTPublisher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.Config{MQTTBroker: "192.0.2.1", MQTTPort: 1883, MQTTClientID: "wxdisplay-test"}
	p := NewPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := p.Publish(ctx, Telemetry{StationID: "home"}); err == nil {
		t.Fatal("Publish() error = nil; want cancellation")
	}
}
