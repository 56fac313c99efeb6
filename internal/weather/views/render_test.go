package views

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"wxdisplay/internal/display"
	"wxdisplay/internal/display/displaytest"
	"wxdisplay/internal/weather"
)

var sample = weather.Reading{
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

func TestLines_Compact(t *testing.T) {
	want := []string{
		"Temp     21.40 C",
		"Feels    22.10 C",
		"Hum      63.00 %",
		"Press  1008.70 hPa",
		"Wind     3.0 m/s S",
		"Cloud    88.00 %",
		"Precip    0.20 mm",
		"  Updated 12:07",
	}

	got := Lines(sample, Compact)
	if len(got) != len(want) {
		t.Fatalf("Lines() returned %d lines; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q; want %q", i, got[i], want[i])
		}
		if len(got[i]) > 21 {
			t.Errorf("line %d %q wider than 21 columns", i, got[i])
		}
	}
}

func TestLines_Large(t *testing.T) {
	want := []string{
		"Temp  21.4",
		"Feel  22.1",
		"Hum   63%",
		"  (12:07) ",
	}

	got := Lines(sample, Large)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Lines() = %q; want %q", got, want)
	}
}

func TestLines_Extremes(t *testing.T) {
	tests := []struct {
		name string
		r    weather.Reading
	}{
		{"saturated", weather.Reading{TemperatureC: 21.4, FeelsLikeC: 22.1, HumidityPct: 100, Updated: "12:07"}},
		{"deep frost", weather.Reading{TemperatureC: -12.5, FeelsLikeC: -19.8, HumidityPct: 9, Updated: "06:30"}},
		{"heat", weather.Reading{TemperatureC: 45.2, FeelsLikeC: 52.7, HumidityPct: 100, PressureHPa: 1050, WindSpeedKPH: 150, WindDirectionDeg: 22.5, CloudCoverPct: 100, PrecipitationMM: 120.5, Updated: "14:00"}},
		{"no direction", weather.Reading{TemperatureC: -12.5, HumidityPct: 100, WindSpeedKPH: 40, WindDirectionDeg: 400, Updated: "00:00"}},
	}
	for _, tc := range tests {
		for _, m := range []Mode{Compact, Large} {
			t.Run(tc.name+"/"+m.String(), func(t *testing.T) {
				cols := display.Width / (display.CellW * m.Scale())
				lines := Lines(tc.r, m)
				for i, l := range lines {
					if len(l) > cols {
						t.Errorf("line %d %q wider than %d columns", i, l, cols)
					}
				}

				c := display.NewCanvas(nil)
				if err := Render(c, tc.r, m); err != nil {
					t.Fatalf("Render() error = %v", err)
				}
				wantY := (len(lines) - 1) * display.CellH * m.Scale()
				if got := c.Cursor().Y; got != wantY {
					t.Errorf("last row at y=%d; want %d", got, wantY)
				}
				if !strings.Contains(lines[len(lines)-1], tc.r.Updated) {
					t.Errorf("last line %q lacks update time %q", lines[len(lines)-1], tc.r.Updated)
				}
			})
		}
	}
}

func TestLines_UnknownDirection(t *testing.T) {
	r := sample
	r.WindDirectionDeg = 400
	got := Lines(r, Compact)[4]
	if want := "Wind     3.0 m/s --"; got != want {
		t.Errorf("wind line = %q; want %q", got, want)
	}
	if len(got) > 21 {
		t.Errorf("wind line %q wider than 21 columns", got)
	}
}

func TestMode_Toggle(t *testing.T) {
	if got := Compact.Toggle(); got != Large {
		t.Errorf("Compact.Toggle() = %v; want %v", got, Large)
	}
	if got := Large.Toggle(); got != Compact {
		t.Errorf("Large.Toggle() = %v; want %v", got, Compact)
	}
	if Compact.Scale() != 1 || Large.Scale() != 2 {
		t.Errorf("scales = %d, %d; want 1, 2", Compact.Scale(), Large.Scale())
	}
}

func TestRender_Idempotent(t *testing.T) {
	for _, m := range []Mode{Compact, Large} {
		t.Run(m.String(), func(t *testing.T) {
			c := display.NewCanvas(nil)
			if err := Render(c, sample, m); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			first := c.Frame()

			// scribble, then render again
			c.FillCircle(64, 32, 20, true)
			if err := Render(c, sample, m); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !bytes.Equal(first, c.Frame()) {
				t.Errorf("second Render produced a different frame")
			}
		})
	}
}

func TestRender_ModesDiffer(t *testing.T) {
	a := display.NewCanvas(nil)
	b := display.NewCanvas(nil)
	_ = Render(a, sample, Compact)
	_ = Render(b, sample, Large)
	if bytes.Equal(a.Frame(), b.Frame()) {
		t.Errorf("compact and large frames are identical")
	}
}

func TestRender_UsesScaleAndFlushes(t *testing.T) {
	rec := &displaytest.Recorder{}
	if err := Render(rec, sample, Large); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	last := rec.Last()
	if last.Size != 2 {
		t.Errorf("text size = %d; want 2", last.Size)
	}
	if !strings.HasPrefix(last.Text, "Temp  21.4\n") {
		t.Errorf("frame = %q", last.Text)
	}
}

func TestRender_ReturnsFlushError(t *testing.T) {
	rec := &displaytest.Recorder{Err: errors.New("i2c nack")}
	if err := Render(rec, sample, Compact); err == nil {
		t.Fatalf("Render() error = nil; want flush error")
	}
}

func TestFetchErrorText(t *testing.T) {
	tests := []struct {
		err  *weather.FetchError
		want string
	}{
		{&weather.FetchError{Kind: weather.TransportFailure}, "Connection error!\n"},
		{&weather.FetchError{Kind: weather.ParseFailure}, "JSON Error!\n"},
		{&weather.FetchError{Kind: weather.HTTPFailure, Status: "503 Service Unavailable", Code: 503}, "HTTP Error!\n503 Service Unavailable"},
	}
	for _, tt := range tests {
		if got := FetchErrorText(tt.err); got != tt.want {
			t.Errorf("FetchErrorText(%v) = %q; want %q", tt.err.Kind, got, tt.want)
		}
	}
}
