// Package ncs scrapes the National Centre for Seismology recent-events
// table. Rows are positional: date, time, latitude, depth, magnitude, and a
// trailing free-text location.
package ncs

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/envpulse/envpulse/internal/provider"
	"github.com/envpulse/envpulse/internal/provider/resilience"
	"github.com/envpulse/envpulse/internal/scrape"
	"github.com/envpulse/envpulse/internal/seismic"
)

const (
	// ProviderName identifies this source in logs and the health registry.
	ProviderName = "ncs-feed"

	// DefaultFeedURL is the NCS recent-earthquakes page.
	DefaultFeedURL = "https://riseq.seismo.gov.in/riseq/earthquake"

	// RecencyWindow is the trailing period an event must fall in to be
	// reported.
	RecencyWindow = 24 * time.Hour

	userAgent = "envpulse/1.0 (regional environmental dashboard)"

	sourceName = "seismic feed"

	// minCells is the minimum cell count for a usable row.
	minCells = 6
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the seismic feed client.
type ClientConfig struct {
	// FeedURL overrides the feed page URL (optional).
	FeedURL string

	// Region is the name used to filter event locations (required).
	Region string

	// TimeZone is the zone the feed renders its timestamps in. Defaults
	// to UTC.
	TimeZone *time.Location

	// HTTPClient is the HTTP client to use. If nil, a single-attempt
	// resilient client is created.
	HTTPClient HTTPDoer

	// Clock supplies the aggregation instant for the recency window.
	// Defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches and filters the NCS seismic feed.
type Client struct {
	feedURL    string
	region     string
	tz         *time.Location
	httpClient HTTPDoer
	clock      clockwork.Clock
	logger     zerolog.Logger
}

// NewClient creates a new seismic feed client.
func NewClient(cfg ClientConfig) *Client {
	feedURL := cfg.FeedURL
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	tz := cfg.TimeZone
	if tz == nil {
		tz = time.UTC
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName))
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Client{
		feedURL:    feedURL,
		region:     cfg.Region,
		tz:         tz,
		httpClient: httpClient,
		clock:      clock,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Recent fetches the feed and returns the region's events from the trailing
// 24 hours, most recent first. Events whose timestamp could not be parsed
// are excluded, as they cannot be verified as recent.
func (c *Client) Recent(ctx context.Context) ([]seismic.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.FromTransport(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.UpstreamError{Source: sourceName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}

	events := c.regionEvents(scrape.TableRows(string(body)))

	// Most recent first; events without a timestamp sort as earliest.
	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].At, events[j].At
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	cutoff := c.clock.Now().Add(-RecencyWindow)
	recent := make([]seismic.Event, 0, len(events))
	for _, ev := range events {
		if ev.At != nil && ev.At.After(cutoff) {
			recent = append(recent, ev)
		}
	}

	c.logger.Debug().
		Int("rows", len(events)).
		Int("recent", len(recent)).
		Str("region", c.region).
		Msg("fetched seismic events")
	return recent, nil
}

// regionEvents turns feed rows into events for the configured region. Rows
// with fewer than six cells carry too few fields to interpret.
func (c *Client) regionEvents(rows [][]string) []seismic.Event {
	region := strings.ToLower(c.region)
	var events []seismic.Event
	for _, row := range rows {
		if len(row) < minCells {
			continue
		}
		location := row[len(row)-1]
		if !strings.Contains(strings.ToLower(location), region) {
			continue
		}

		ev := seismic.Event{
			Location:  location,
			Magnitude: magnitudeOf(row),
		}
		if at, ok := scrape.ParseStamp(row[0], row[1], c.tz); ok {
			ev.At = &at
		}
		events = append(events, ev)
	}
	return events
}

// magnitudeOf prefers the fifth cell's numeric value, falling back to the
// fourth, rounded to one decimal. Nil when neither parses.
func magnitudeOf(row []string) *float64 {
	for _, cell := range []string{row[4], row[3]} {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			continue
		}
		mag := math.Round(v*10) / 10
		return &mag
	}
	return nil
}
