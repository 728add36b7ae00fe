// Package main provides the entrypoint for the envpulse API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/envpulse/envpulse/internal/airquality/openweathermap"
	"github.com/envpulse/envpulse/internal/alerts/imd"
	"github.com/envpulse/envpulse/internal/api"
	"github.com/envpulse/envpulse/internal/api/middleware"
	"github.com/envpulse/envpulse/internal/config"
	"github.com/envpulse/envpulse/internal/provider/resilience"
	"github.com/envpulse/envpulse/internal/seismic/ncs"
	"github.com/envpulse/envpulse/internal/summary"
	"github.com/envpulse/envpulse/internal/telemetry"
	"github.com/envpulse/envpulse/internal/weather"
	owmweather "github.com/envpulse/envpulse/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "envpulse-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting envpulse API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// One circuit-broken HTTP client per upstream source, all registered
	// for the ops status endpoint.
	sources := resilience.NewRegistry()
	newSourceClient := func(name string) *resilience.Client {
		clientCfg := resilience.SingleAttemptConfig(name)
		clientCfg.Timeout = cfg.SourceTimeout
		client := resilience.NewClient(clientCfg)
		sources.Register(name, client)
		return client
	}

	weatherClient := owmweather.NewClient(owmweather.ClientConfig{
		APIKey:      cfg.APIKey,
		DefaultCity: cfg.DefaultCity,
		HTTPClient:  newSourceClient(summary.SourceWeather),
		Logger:      log,
	})
	airClient := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     cfg.APIKey,
		HTTPClient: newSourceClient(summary.SourceAirQuality),
		Logger:     log,
	})
	alertClient := imd.NewClient(imd.ClientConfig{
		BulletinURL: cfg.BulletinURL,
		Region:      cfg.Region,
		HTTPClient:  newSourceClient(summary.SourceAlerts),
		Logger:      log,
	})
	seismicClient := ncs.NewClient(ncs.ClientConfig{
		FeedURL:    cfg.SeismicFeedURL,
		Region:     cfg.Region,
		TimeZone:   cfg.TimeZone,
		HTTPClient: newSourceClient(summary.SourceSeismic),
		Logger:     log,
	})

	if cfg.APIKey == "" {
		log.Warn().Msg("OWM_API_KEY not set, weather and air quality sources will degrade")
	}

	collector := summary.NewCollector(summary.CollectorConfig{
		Weather:       weatherClient,
		AirQuality:    airClient,
		Alerts:        alertClient,
		Seismic:       seismicClient,
		DefaultCity:   cfg.DefaultCity,
		FallbackCoord: weather.Coordinate{Lat: cfg.FallbackLat, Lon: cfg.FallbackLon},
		Sources:       sources,
		Logger:        log,
	})
	log.Info().
		Str("region", cfg.Region).
		Str("default_city", cfg.DefaultCity).
		Dur("source_timeout", cfg.SourceTimeout).
		Msg("summary collector initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Metrics:   metrics,
		Collector: collector,
		Sources:   sources,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
