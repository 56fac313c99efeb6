// Package weather fetches current conditions from the Open-Meteo forecast
// API and stamps them with network time.
package weather

import (
	"time"

	"wxdisplay/internal/compass"
)

// Reading is one snapshot of current conditions. Updated is the local
// HH:MM at which it was fetched.
type Reading struct {
	TemperatureC     float64
	FeelsLikeC       float64
	HumidityPct      float64
	PressureHPa      float64
	WindSpeedKPH     float64
	WindDirectionDeg float64
	CloudCoverPct    float64
	PrecipitationMM  float64
	Updated          string
}

func (r Reading) WindSpeedMPS() float64 {
	return r.WindSpeedKPH / 3.6
}

func (r Reading) WindCompass() string {
	return compass.Label(r.WindDirectionDeg)
}

// FormatClock renders t as zero-padded HH:MM in t's own location.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
