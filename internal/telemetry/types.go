package telemetry

import (
	"time"

	"wxdisplay/internal/weather"
)

// Telemetry is the JSON document published for every successful fetch.
type Telemetry struct {
	StationID     string    `json:"station_id"`
	CycleID       string    `json:"cycle_id"`
	Timestamp     time.Time `json:"timestamp"`
	Temperature   *float64  `json:"temperature_c,omitempty"`
	FeelsLike     *float64  `json:"feels_like_c,omitempty"`
	Humidity      *float64  `json:"humidity_pct,omitempty"`
	Pressure      *float64  `json:"pressure_hpa,omitempty"`
	WindSpeed     *float64  `json:"wind_speed_mps,omitempty"`
	WindDirection *float64  `json:"wind_direction_deg,omitempty"`
	WindCompass   string    `json:"wind_compass,omitempty"`
	CloudCover    *float64  `json:"cloud_cover_pct,omitempty"`
	Precipitation *float64  `json:"precipitation_mm,omitempty"`
	Updated       string    `json:"updated,omitempty"`
}

func FromReading(stationID, cycleID string, r weather.Reading, at time.Time) Telemetry {
	return Telemetry{
		StationID:     stationID,
		CycleID:       cycleID,
		Timestamp:     at,
		Temperature:   ptr(r.TemperatureC),
		FeelsLike:     ptr(r.FeelsLikeC),
		Humidity:      ptr(r.HumidityPct),
		Pressure:      ptr(r.PressureHPa),
		WindSpeed:     ptr(r.WindSpeedMPS()),
		WindDirection: ptr(r.WindDirectionDeg),
		WindCompass:   r.WindCompass(),
		CloudCover:    ptr(r.CloudCoverPct),
		Precipitation: ptr(r.PrecipitationMM),
		Updated:       r.Updated,
	}
}

func ptr(v float64) *float64 { return &v }
