package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// Wi-Fi
	RadioDriver        string
	WiFiSSID           string
	WiFiPassword       string
	WiFiInterface      string
	WiFiMaxAttempts    int
	WiFiAttemptTimeout time.Duration
	WiFiPollInterval   time.Duration
	WiFiSettleDelay    time.Duration
	WiFiRetryDwell     time.Duration

	// Weather source
	WeatherBaseURL     string
	WeatherLatitude    float64
	WeatherLongitude   float64
	WeatherTimezone    string
	WeatherModel       string
	WeatherInsecureTLS bool
	HTTPTimeout        time.Duration
	NTPServer          string
	UTCOffset          time.Duration

	// Scheduler
	RefreshInterval time.Duration
	ErrorDwell      time.Duration
	LoopInterval    time.Duration
	ButtonDebounce  time.Duration

	// Hardware
	DisplayDriver string
	I2CBus        string
	ButtonDriver  string
	ButtonPin     string

	// Optional outputs
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	StationID    string
	JournalPath  string
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	radioDriver, err := oneOf("RADIO_DRIVER", "networkmanager", "networkmanager", "sim")
	if err != nil {
		return Config{}, err
	}

	wifiInterface := strings.TrimSpace(os.Getenv("WIFI_INTERFACE"))
	if wifiInterface == "" {
		wifiInterface = "wlan0"
	}

	maxAttempts, err := positiveInt("WIFI_MAX_ATTEMPTS", "3")
	if err != nil {
		return Config{}, err
	}
	attemptTimeout, err := positiveDuration("WIFI_ATTEMPT_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	pollInterval, err := positiveDuration("WIFI_POLL_INTERVAL", "500ms")
	if err != nil {
		return Config{}, err
	}
	settleDelay, err := nonNegativeDuration("WIFI_SETTLE_DELAY", "500ms")
	if err != nil {
		return Config{}, err
	}
	retryDwell, err := nonNegativeDuration("WIFI_RETRY_DWELL", "1m")
	if err != nil {
		return Config{}, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("WEATHER_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	latitude, err := float("WEATHER_LATITUDE", "34.9717465", -90, 90)
	if err != nil {
		return Config{}, err
	}
	longitude, err := float("WEATHER_LONGITUDE", "138.378599", -180, 180)
	if err != nil {
		return Config{}, err
	}
	timezone := strings.TrimSpace(os.Getenv("WEATHER_TIMEZONE"))
	if timezone == "" {
		timezone = "Asia/Tokyo"
	}
	model := strings.TrimSpace(os.Getenv("WEATHER_MODEL"))
	if model == "" {
		model = "jma_seamless"
	}
	insecureTLS, err := boolean("WEATHER_INSECURE_TLS", "true")
	if err != nil {
		return Config{}, err
	}
	httpTimeout, err := positiveDuration("HTTP_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	ntpServer := strings.TrimSpace(os.Getenv("NTP_SERVER"))
	if ntpServer == "" {
		ntpServer = "pool.ntp.org"
	}
	utcOffset, err := duration("UTC_OFFSET", "9h")
	if err != nil {
		return Config{}, err
	}
	if utcOffset < -14*time.Hour || utcOffset > 14*time.Hour {
		return Config{}, fmt.Errorf("UTC_OFFSET must be within ±14h, got %v", utcOffset)
	}

	refreshInterval, err := positiveDuration("REFRESH_INTERVAL", "30m")
	if err != nil {
		return Config{}, err
	}
	errorDwell, err := nonNegativeDuration("ERROR_DWELL", "3s")
	if err != nil {
		return Config{}, err
	}
	loopInterval, err := positiveDuration("LOOP_INTERVAL", "10ms")
	if err != nil {
		return Config{}, err
	}
	debounce, err := nonNegativeDuration("BUTTON_DEBOUNCE", "200ms")
	if err != nil {
		return Config{}, err
	}

	displayDriver, err := oneOf("DISPLAY_DRIVER", "ssd1306", "ssd1306", "console")
	if err != nil {
		return Config{}, err
	}
	buttonDriver, err := oneOf("BUTTON_DRIVER", "gpio", "gpio", "none")
	if err != nil {
		return Config{}, err
	}
	buttonPin := strings.TrimSpace(os.Getenv("BUTTON_PIN"))
	if buttonPin == "" {
		buttonPin = "GPIO17"
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "wxdisplay"
	}

	stationID := strings.TrimSpace(os.Getenv("STATION_ID"))
	if stationID == "" {
		stationID = "home"
	}

	return Config{
		AppEnv:             appEnv,
		LogLevel:           level,
		RadioDriver:        radioDriver,
		WiFiSSID:           strings.TrimSpace(os.Getenv("WIFI_SSID")),
		WiFiPassword:       os.Getenv("WIFI_PASSWORD"),
		WiFiInterface:      wifiInterface,
		WiFiMaxAttempts:    maxAttempts,
		WiFiAttemptTimeout: attemptTimeout,
		WiFiPollInterval:   pollInterval,
		WiFiSettleDelay:    settleDelay,
		WiFiRetryDwell:     retryDwell,
		WeatherBaseURL:     baseURL,
		WeatherLatitude:    latitude,
		WeatherLongitude:   longitude,
		WeatherTimezone:    timezone,
		WeatherModel:       model,
		WeatherInsecureTLS: insecureTLS,
		HTTPTimeout:        httpTimeout,
		NTPServer:          ntpServer,
		UTCOffset:          utcOffset,
		RefreshInterval:    refreshInterval,
		ErrorDwell:         errorDwell,
		LoopInterval:       loopInterval,
		ButtonDebounce:     debounce,
		DisplayDriver:      displayDriver,
		I2CBus:             strings.TrimSpace(os.Getenv("I2C_BUS")),
		ButtonDriver:       buttonDriver,
		ButtonPin:          buttonPin,
		MQTTBroker:         strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTPort:           mqttPort,
		MQTTClientID:       mqttClientID,
		StationID:          stationID,
		JournalPath:        strings.TrimSpace(os.Getenv("JOURNAL_PATH")),
	}, nil
}

// ValidateWiFi reports missing credentials for drivers that need them.
// The demos never touch the radio and skip this check.
func (c Config) ValidateWiFi() error {
	if c.RadioDriver == "sim" {
		return nil
	}
	if c.WiFiSSID == "" {
		return errors.New("WIFI_SSID is required when RADIO_DRIVER=" + c.RadioDriver)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func oneOf(key, def string, allowed ...string) (string, error) {
	v := strings.ToLower(envOr(key, def))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q (allowed: %s)", key, v, strings.Join(allowed, ", "))
}

func positiveInt(key, def string) (int, error) {
	s := envOr(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func duration(key, def string) (time.Duration, error) {
	s := envOr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func positiveDuration(key, def string) (time.Duration, error) {
	d, err := duration(key, def)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func nonNegativeDuration(key, def string) (time.Duration, error) {
	d, err := duration(key, def)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", key, d)
	}
	return d, nil
}

func float(key, def string, lo, hi float64) (float64, error) {
	s := envOr(key, def)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("%s out of range: %v (must be %v..%v)", key, f, lo, hi)
	}
	return f, nil
}

func boolean(key, def string) (bool, error) {
	s := envOr(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}
