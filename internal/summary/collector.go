package summary

import (
	"context"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/envpulse/envpulse/internal/airquality"
	"github.com/envpulse/envpulse/internal/alerts"
	"github.com/envpulse/envpulse/internal/provider/resilience"
	"github.com/envpulse/envpulse/internal/seismic"
	"github.com/envpulse/envpulse/internal/weather"
)

// Registry names for the four sources.
const (
	SourceWeather    = "weather"
	SourceAirQuality = "air-quality"
	SourceAlerts     = "alerts"
	SourceSeismic    = "seismic"
)

const tracerName = "github.com/envpulse/envpulse/internal/summary"

// WeatherSource fetches current conditions for a named location.
type WeatherSource interface {
	CurrentByCity(ctx context.Context, city string) (*weather.Report, error)
}

// AirQualitySource fetches the air-quality reading for a coordinate pair.
type AirQualitySource interface {
	ByCoord(ctx context.Context, lat, lon float64) (*airquality.Reading, error)
}

// AlertSource fetches the region's warning bulletin.
type AlertSource interface {
	Fetch(ctx context.Context) (*alerts.Bulletin, error)
}

// SeismicSource fetches the region's recent seismic events.
type SeismicSource interface {
	Recent(ctx context.Context) ([]seismic.Event, error)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Weather    WeatherSource
	AirQuality AirQualitySource
	Alerts     AlertSource
	Seismic    SeismicSource

	// DefaultCity is used when the caller supplies no location name.
	DefaultCity string

	// FallbackCoord feeds the air-quality lookup when the weather source
	// failed or omitted coordinates, so that lookup never blocks on a
	// missing coordinate.
	FallbackCoord weather.Coordinate

	// Clock supplies the aggregation instant. Defaults to the real clock.
	Clock clockwork.Clock

	// Sources, when set, receives per-source success and failure marks
	// for the ops status endpoint.
	Sources *resilience.Registry

	// Logger for collection operations.
	Logger zerolog.Logger
}

// Collector orchestrates the four sources for one target location.
type Collector struct {
	weather    WeatherSource
	airQuality AirQualitySource
	alerts     AlertSource
	seismic    SeismicSource

	defaultCity   string
	fallbackCoord weather.Coordinate
	clock         clockwork.Clock
	sources       *resilience.Registry
	logger        zerolog.Logger
}

// NewCollector creates a collector from cfg.
func NewCollector(cfg CollectorConfig) *Collector {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Collector{
		weather:       cfg.Weather,
		airQuality:    cfg.AirQuality,
		alerts:        cfg.Alerts,
		seismic:       cfg.Seismic,
		defaultCity:   cfg.DefaultCity,
		fallbackCoord: cfg.FallbackCoord,
		clock:         clock,
		sources:       cfg.Sources,
		logger:        cfg.Logger,
	}
}

// Collect gathers all four sources for the named location and folds the
// results into one summary. It never returns an error: each source failure
// is absorbed at this boundary as a SourceErrors entry, and the remaining
// sources still contribute.
//
// The weather call runs first because its response supplies the coordinate
// for the air-quality lookup; the other three calls are independent and run
// concurrently. Nothing is shared between the source goroutines except
// their own result slots.
func (c *Collector) Collect(ctx context.Context, location string) *Summary {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "summary.collect")
	defer span.End()

	location = strings.TrimSpace(location)
	if location == "" {
		location = c.defaultCity
	}
	location = cases.Title(language.English).String(location)
	span.SetAttributes(attribute.String("summary.location", location))

	weatherReport, weatherErr := c.weather.CurrentByCity(ctx, location)

	coord := c.fallbackCoord
	if weatherErr == nil && weatherReport.Coord != nil {
		coord = *weatherReport.Coord
	}

	var (
		wg sync.WaitGroup

		airReading *airquality.Reading
		airErr     error

		bulletin    *alerts.Bulletin
		bulletinErr error

		events     []seismic.Event
		seismicErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		airReading, airErr = c.airQuality.ByCoord(ctx, coord.Lat, coord.Lon)
	}()
	go func() {
		defer wg.Done()
		bulletin, bulletinErr = c.alerts.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		events, seismicErr = c.seismic.Recent(ctx)
	}()
	wg.Wait()

	s := &Summary{
		Location:      location,
		SeismicEvents: []seismic.Event{},
		SourceErrors:  []string{},
		CollectedAt:   c.clock.Now(),
	}

	if weatherErr != nil {
		c.sourceDown(SourceWeather, weatherErr)
		s.SourceErrors = append(s.SourceErrors, "Weather: "+weatherErr.Error())
	} else {
		c.sourceUp(SourceWeather)
		s.Weather = weatherReport
	}

	if airErr != nil {
		c.sourceDown(SourceAirQuality, airErr)
		s.SourceErrors = append(s.SourceErrors, "Air Quality: "+airErr.Error())
	} else {
		c.sourceUp(SourceAirQuality)
		s.AirQuality = airReading
	}

	if bulletinErr != nil {
		c.sourceDown(SourceAlerts, bulletinErr)
		s.SourceErrors = append(s.SourceErrors, "Alerts: "+bulletinErr.Error())
		s.Alerts = alerts.Unavailable()
	} else {
		c.sourceUp(SourceAlerts)
		s.Alerts = bulletin
	}

	if seismicErr != nil {
		c.sourceDown(SourceSeismic, seismicErr)
		s.SourceErrors = append(s.SourceErrors, "Earthquakes: "+seismicErr.Error())
	} else {
		c.sourceUp(SourceSeismic)
		if events != nil {
			s.SeismicEvents = events
		}
	}

	span.SetAttributes(attribute.Int("summary.source_errors", len(s.SourceErrors)))
	c.logger.Info().
		Str("location", location).
		Int("source_errors", len(s.SourceErrors)).
		Int("seismic_events", len(s.SeismicEvents)).
		Msg("summary collected")
	return s
}

func (c *Collector) sourceDown(source string, err error) {
	c.logger.Warn().Err(err).Str("source", source).Msg("source unavailable, degrading summary")
	if c.sources != nil {
		c.sources.RecordFailure(source, err)
	}
}

func (c *Collector) sourceUp(source string) {
	if c.sources != nil {
		c.sources.RecordSuccess(source)
	}
}
