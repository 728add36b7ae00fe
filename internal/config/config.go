// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the envpulse service.
type Config struct {
	// Env is the deployment environment: local, development, production.
	Env string

	// Port is the HTTP listen port.
	Port string

	// APIKey is the OpenWeatherMap credential shared by the weather and
	// air-quality sources. Its absence surfaces per call as a
	// configuration error, not at startup, since the scraped sources
	// still work without it.
	APIKey string

	// Region is the target region name used for bulletin and seismic row
	// matching.
	Region string

	// DefaultCity is the location used when a request names none.
	DefaultCity string

	// FallbackLat/FallbackLon feed the air-quality lookup when the
	// weather source cannot supply a coordinate.
	FallbackLat float64
	FallbackLon float64

	// BulletinURL and SeismicFeedURL override the scraped page URLs.
	// Empty means the client defaults.
	BulletinURL    string
	SeismicFeedURL string

	// TimeZone is the IANA zone the scraped feeds render timestamps in.
	TimeZone *time.Location

	// SourceTimeout bounds each upstream call.
	SourceTimeout time.Duration

	// OTLPEndpoint and TelemetryEnabled configure OpenTelemetry export.
	OTLPEndpoint     string
	TelemetryEnabled bool
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	lat, err := envFloat("ENVPULSE_FALLBACK_LAT", 30.3165)
	if err != nil {
		return nil, err
	}
	lon, err := envFloat("ENVPULSE_FALLBACK_LON", 78.0322)
	if err != nil {
		return nil, err
	}

	timeout, err := envDuration("ENVPULSE_SOURCE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	tzName := envDefault("ENVPULSE_TIMEZONE", "Asia/Kolkata")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", tzName, err)
	}

	return &Config{
		Env:              envDefault("APP_ENV", "development"),
		Port:             envDefault("APP_PORT", "8080"),
		APIKey:           os.Getenv("OWM_API_KEY"),
		Region:           envDefault("ENVPULSE_REGION", "Uttarakhand"),
		DefaultCity:      envDefault("ENVPULSE_DEFAULT_CITY", "Dehradun"),
		FallbackLat:      lat,
		FallbackLon:      lon,
		BulletinURL:      os.Getenv("ENVPULSE_BULLETIN_URL"),
		SeismicFeedURL:   os.Getenv("ENVPULSE_SEISMIC_FEED_URL"),
		TimeZone:         tz,
		SourceTimeout:    timeout,
		OTLPEndpoint:     envDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
	}, nil
}

func envDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
