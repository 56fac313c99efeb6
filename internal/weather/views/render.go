// Package views lays weather readings and status notices out on the
// 128x64 text display.
package views

import (
	"fmt"
	"strings"

	"wxdisplay/internal/compass"
	"wxdisplay/internal/display"
	"wxdisplay/internal/weather"
)

type Mode int

const (
	Compact Mode = iota
	Large
)

func (m Mode) Toggle() Mode {
	if m == Compact {
		return Large
	}
	return Compact
}

func (m Mode) String() string {
	if m == Large {
		return "large"
	}
	return "compact"
}

// Layout returns the layout a mode renders with.
func (m Mode) Layout() Layout {
	if m == Large {
		return LargeLayout
	}
	return CompactLayout
}

// Scale is the glyph scale used for the mode's text.
func (m Mode) Scale() int { return m.Layout().Scale }

// Layout is one way of placing a reading on the panel: a glyph scale and
// the text lines drawn at that scale from the top-left corner.
type Layout struct {
	Name  string
	Scale int
	Lines func(r weather.Reading) []string
}

// CompactLayout shows every field on eight 21-column rows.
var CompactLayout = Layout{
	Name:  "compact",
	Scale: 1,
	Lines: func(r weather.Reading) []string {
		return []string{
			fmt.Sprintf("Temp   %7.2f C", r.TemperatureC),
			fmt.Sprintf("Feels  %7.2f C", r.FeelsLikeC),
			fmt.Sprintf("Hum    %7.2f %%", r.HumidityPct),
			fmt.Sprintf("Press  %7.2f hPa", r.PressureHPa),
			fmt.Sprintf("Wind   %5.1f m/s %s", r.WindSpeedMPS(), shortCompass(r)),
			fmt.Sprintf("Cloud  %7.2f %%", r.CloudCoverPct),
			fmt.Sprintf("Precip %7.2f mm", r.PrecipitationMM),
			fmt.Sprintf("  Updated %s", r.Updated),
		}
	},
}

// shortCompass fits the wind label into the compact row; compass.Unknown
// would overflow it.
func shortCompass(r weather.Reading) string {
	if l := r.WindCompass(); l != compass.Unknown {
		return l
	}
	return "--"
}

// LargeLayout shows temperature, feels-like, humidity and the update time
// at double size. Every row is at most ten columns.
var LargeLayout = Layout{
	Name:  "large",
	Scale: 2,
	Lines: func(r weather.Reading) []string {
		return []string{
			fmt.Sprintf("Temp %5.1f", r.TemperatureC),
			fmt.Sprintf("Feel %5.1f", r.FeelsLikeC),
			fmt.Sprintf("Hum  %3.0f%%", r.HumidityPct),
			fmt.Sprintf("  (%s) ", r.Updated),
		}
	},
}

func Lines(r weather.Reading, m Mode) []string {
	return m.Layout().Lines(r)
}

// Render replaces the screen with r laid out for m and flushes it.
func Render(s display.Sink, r weather.Reading, m Mode) error {
	l := m.Layout()
	return draw(s, strings.Join(l.Lines(r), "\n"), l.Scale)
}

// Notice replaces the screen with msg at the given scale and flushes it.
// How long it stays up is up to the caller.
func Notice(s display.Sink, msg string, scale int) error {
	return draw(s, msg, scale)
}

func draw(s display.Sink, text string, scale int) error {
	s.Clear()
	s.SetCursor(0, 0)
	s.SetTextSize(scale)
	s.SetTextColor(true)
	s.Print(text)
	return s.Display()
}
