package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no WeatherAPI key is configured.
var ErrMissingAPIKey = errors.New("WEATHERAPI_API_KEY is required")

type AppConfig struct {
	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherAPILang    string
	// WeatherAPIMaxRetries is the number of retries of temporary provider
	// failures (0 = a single attempt).
	WeatherAPIMaxRetries int

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// Widget sessions.
	SessionMax           int           // max live sessions (0 = unlimited)
	SessionMaxIdle       time.Duration // idle sessions are unmounted after this (0 = never)
	SessionSweepInterval time.Duration

	// Optional server-side home location, geocoded when a widget mounts
	// without a device position.
	GeocoderAPIKey string
	HomeCity       string
	HomeRegion     string
	HomeCountry    string

	Port  string
	Debug bool
}

// Load reads configuration from .env and the environment with sensible defaults.
// loadedEnv reports whether a .env file was read.
func Load() (cfg *AppConfig, loadedEnv bool, err error) {
	loadedEnv = godotenv.Load() == nil

	cfg = &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	if cfg.WeatherAPIKey == "" {
		return nil, loadedEnv, ErrMissingAPIKey
	}
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1")
	cfg.WeatherAPILang = getenvDefault("WEATHERAPI_LANG", "en")
	cfg.WeatherAPIMaxRetries = getenvInt("WEATHERAPI_MAX_RETRIES", 0)
	if cfg.WeatherAPIMaxRetries < 0 {
		return nil, loadedEnv, fmt.Errorf("invalid WEATHERAPI_MAX_RETRIES: %d", cfg.WeatherAPIMaxRetries)
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, loadedEnv, err
	}

	cfg.SessionMax = getenvInt("SESSION_MAX", 1000)
	if cfg.SessionMaxIdle, err = getenvDuration("SESSION_MAX_IDLE", "30m"); err != nil {
		return nil, loadedEnv, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, loadedEnv, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.HomeCity = os.Getenv("HOME_CITY")
	cfg.HomeRegion = os.Getenv("HOME_REGION")
	cfg.HomeCountry = os.Getenv("HOME_COUNTRY")

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Debug, _ = strconv.ParseBool(os.Getenv("LOG_DEBUG"))

	return cfg, loadedEnv, nil
}

// HomeLocationEnabled reports whether a home location can be geocoded.
func (c *AppConfig) HomeLocationEnabled() bool {
	return c.GeocoderAPIKey != "" && c.HomeCity != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}
	return d, nil
}
