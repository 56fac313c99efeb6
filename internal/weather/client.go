package weather

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wxdisplay/internal/config"
)

const (
	forecastPath = "/v1/forecast"
	maxBodyBytes = 1 << 20
	currentVars  = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,cloud_cover,surface_pressure,wind_speed_10m,wind_direction_10m"
)

type Options struct {
	BaseURL     string
	Latitude    float64
	Longitude   float64
	Timezone    string
	Model       string
	InsecureTLS bool
	Timeout     time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		BaseURL:     cfg.WeatherBaseURL,
		Latitude:    cfg.WeatherLatitude,
		Longitude:   cfg.WeatherLongitude,
		Timezone:    cfg.WeatherTimezone,
		Model:       cfg.WeatherModel,
		InsecureTLS: cfg.WeatherInsecureTLS,
		Timeout:     cfg.HTTPTimeout,
	}
}

type Client struct {
	url  string
	http *http.Client
	time TimeSource
}

func NewClient(opts Options, ts TimeSource) *Client {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(opts.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(opts.Longitude, 'f', -1, 64))
	q.Set("current", currentVars)
	q.Set("timezone", opts.Timezone)
	if opts.Model != "" {
		q.Set("models", opts.Model)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: opts.InsecureTLS}

	return &Client{
		url:  opts.BaseURL + forecastPath + "?" + q.Encode(),
		http: &http.Client{Transport: tr, Timeout: opts.Timeout},
		time: ts,
	}
}

// URL returns the request URL Fetch uses.
func (c *Client) URL() string { return c.url }

// current is the subset of the "current" block we require. Pointers tell
// a missing field apart from a zero value.
type current struct {
	Temperature   *float64 `json:"temperature_2m"`
	Humidity      *float64 `json:"relative_humidity_2m"`
	FeelsLike     *float64 `json:"apparent_temperature"`
	Precipitation *float64 `json:"precipitation"`
	CloudCover    *float64 `json:"cloud_cover"`
	Pressure      *float64 `json:"surface_pressure"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
	WindDirection *float64 `json:"wind_direction_10m"`
}

type forecast struct {
	Current *current `json:"current"`
}

// Fetch performs one GET against the forecast endpoint. On error the
// returned Reading is the zero value and the error is a *FetchError.
func (c *Client) Fetch(ctx context.Context) (Reading, error) {
	stamp := FormatClock(c.time.Now(ctx))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Reading{}, &FetchError{Kind: TransportFailure, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("weather: fetching", "url", c.url)
	resp, err := c.http.Do(req)
	if err != nil {
		return Reading{}, &FetchError{Kind: TransportFailure, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("weather: failed to close body", "err", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, &FetchError{Kind: HTTPFailure, Status: resp.Status, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Reading{}, &FetchError{Kind: TransportFailure, Err: fmt.Errorf("read body: %w", err)}
	}

	r, err := parse(body)
	if err != nil {
		return Reading{}, &FetchError{Kind: ParseFailure, Err: err}
	}
	r.Updated = stamp

	slog.Info("weather: reading updated",
		"temp_c", r.TemperatureC,
		"humidity_pct", r.HumidityPct,
		"wind_kph", r.WindSpeedKPH,
		"updated", r.Updated,
	)
	return r, nil
}

func parse(body []byte) (Reading, error) {
	var f forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return Reading{}, fmt.Errorf("decode forecast: %w", err)
	}
	cur := f.Current
	if cur == nil {
		return Reading{}, errors.New(`missing "current" object`)
	}

	fields := []struct {
		name string
		v    *float64
	}{
		{"temperature_2m", cur.Temperature},
		{"relative_humidity_2m", cur.Humidity},
		{"apparent_temperature", cur.FeelsLike},
		{"precipitation", cur.Precipitation},
		{"cloud_cover", cur.CloudCover},
		{"surface_pressure", cur.Pressure},
		{"wind_speed_10m", cur.WindSpeed},
		{"wind_direction_10m", cur.WindDirection},
	}
	for _, fld := range fields {
		if fld.v == nil {
			return Reading{}, fmt.Errorf("missing current.%s", fld.name)
		}
	}

	return Reading{
		TemperatureC:     *cur.Temperature,
		FeelsLikeC:       *cur.FeelsLike,
		HumidityPct:      *cur.Humidity,
		PressureHPa:      *cur.Pressure,
		WindSpeedKPH:     *cur.WindSpeed,
		WindDirectionDeg: *cur.WindDirection,
		CloudCoverPct:    *cur.CloudCover,
		PrecipitationMM:  *cur.Precipitation,
	}, nil
}
