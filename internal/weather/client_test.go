package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wxdisplay/internal/clock"
)

const sampleBody = `{
  "latitude": 34.97,
  "longitude": 138.38,
  "current_units": {"temperature_2m": "°C"},
  "current": {
    "time": "2024-06-01T12:00",
    "interval": 900,
    "temperature_2m": 21.4,
    "relative_humidity_2m": 63,
    "apparent_temperature": 22.1,
    "is_day": 1,
    "precipitation": 0.2,
    "weather_code": 3,
    "cloud_cover": 88,
    "surface_pressure": 1008.7,
    "wind_speed_10m": 10.8,
    "wind_direction_10m": 200
  }
}`

// fixedTime stamps every reading at 2024-06-01 03:07 UTC, 12:07 in +9h.
func fixedTime() TimeSource {
	return ClockTimeSource{
		Clock:  clock.NewFake(time.Date(2024, 6, 1, 3, 7, 0, 0, time.UTC)),
		Offset: 9 * time.Hour,
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:   srv.URL,
		Latitude:  34.9717465,
		Longitude: 138.378599,
		Timezone:  "Asia/Tokyo",
		Model:     "jma_seamless",
		Timeout:   2 * time.Second,
	}, fixedTime())
}

func TestFetch_OK(t *testing.T) {
	var gotPath, gotQuery string
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("requests = %d; want 1", calls)
	}
	if gotPath != "/v1/forecast" {
		t.Errorf("path = %q; want %q", gotPath, "/v1/forecast")
	}
	if want := "/v1/forecast?" + gotQuery; !strings.HasSuffix(c.URL(), want) {
		t.Errorf("URL() = %q; want suffix %q", c.URL(), want)
	}
	for _, want := range []string{
		"latitude=34.9717465",
		"longitude=138.378599",
		"timezone=Asia%2FTokyo",
		"models=jma_seamless",
		"wind_direction_10m",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	want := Reading{
		TemperatureC:     21.4,
		FeelsLikeC:       22.1,
		HumidityPct:      63,
		PressureHPa:      1008.7,
		WindSpeedKPH:     10.8,
		WindDirectionDeg: 200,
		CloudCoverPct:    88,
		PrecipitationMM:  0.2,
		Updated:          "12:07",
	}
	if got != want {
		t.Errorf("Fetch() = %+v; want %+v", got, want)
	}
}

func TestReading_Wind(t *testing.T) {
	r := Reading{WindSpeedKPH: 10.8, WindDirectionDeg: 200}

	if got := fmt.Sprintf("%.1f", r.WindSpeedMPS()); got != "3.0" {
		t.Errorf("wind m/s = %q; want %q", got, "3.0")
	}
	if got := r.WindCompass(); got != "S" {
		t.Errorf("WindCompass() = %q; want %q", got, "S")
	}
}

func TestFetch_HTTPFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	got, err := c.Fetch(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if ferr.Kind != HTTPFailure {
		t.Errorf("Kind = %v; want %v", ferr.Kind, HTTPFailure)
	}
	if ferr.Code != http.StatusServiceUnavailable || ferr.Status != "503 Service Unavailable" {
		t.Errorf("status = %d %q; want 503 %q", ferr.Code, ferr.Status, "503 Service Unavailable")
	}
	if got != (Reading{}) {
		t.Errorf("Fetch() reading = %+v; want zero value", got)
	}
}

func TestFetch_ParseFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "truncated", body: sampleBody[:120]},
		{name: "no current block", body: `{"latitude": 1}`},
		{name: "missing wind direction", body: strings.Replace(sampleBody, `"wind_direction_10m": 200`, `"wind_gusts_10m": 20`, 1)},
		{name: "null temperature", body: strings.Replace(sampleBody, `"temperature_2m": 21.4`, `"temperature_2m": null`, 1)},
		{name: "wrong type", body: strings.Replace(sampleBody, `"cloud_cover": 88`, `"cloud_cover": "lots"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.Fetch(context.Background())
			var ferr *FetchError
			if !errors.As(err, &ferr) {
				t.Fatalf("Fetch() error = %v, want *FetchError", err)
			}
			if ferr.Kind != ParseFailure {
				t.Errorf("Kind = %v; want %v (err %v)", ferr.Kind, ParseFailure, ferr.Err)
			}
			if got != (Reading{}) {
				t.Errorf("Fetch() reading = %+v; want zero value", got)
			}
		})
	}
}

func TestFetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: base, Timeout: time.Second}, fixedTime())
	got, err := c.Fetch(context.Background())

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if ferr.Kind != TransportFailure {
		t.Errorf("Kind = %v; want %v", ferr.Kind, TransportFailure)
	}
	if got != (Reading{}) {
		t.Errorf("Fetch() reading = %+v; want zero value", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "00:00"},
		{time.Date(2024, 1, 1, 9, 5, 59, 0, time.UTC), "09:05"},
		{time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), "23:59"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.t); got != tt.want {
			t.Errorf("FormatClock(%v) = %q; want %q", tt.t, got, tt.want)
		}
	}
}

func TestClockTimeSource_Offset(t *testing.T) {
	ts := ClockTimeSource{
		Clock:  clock.NewFake(time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)),
		Offset: 9 * time.Hour,
	}
	if got := FormatClock(ts.Now(context.Background())); got != "05:30" {
		t.Errorf("clock = %q; want %q", got, "05:30")
	}
}

func TestNTPTimeSource_FallsBackToClock(t *testing.T) {
	ts := NTPTimeSource{
		Server:   "127.0.0.1:1",
		Offset:   -5 * time.Hour,
		Timeout:  50 * time.Millisecond,
		Fallback: clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	if got := FormatClock(ts.Now(context.Background())); got != "07:00" {
		t.Errorf("clock = %q; want %q", got, "07:00")
	}
}
