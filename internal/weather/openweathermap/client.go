// Package openweathermap provides the OpenWeatherMap current-weather client.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/envpulse/envpulse/internal/provider"
	"github.com/envpulse/envpulse/internal/provider/resilience"
	"github.com/envpulse/envpulse/internal/weather"
)

const (
	// ProviderName identifies this source in logs and the health registry.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultCity is used when the caller supplies an empty location name.
	DefaultCity = "Dehradun"

	sourceName = "weather endpoint"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap credential (required at call time).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// DefaultCity overrides the fallback location name (optional).
	DefaultCity string

	// HTTPClient is the HTTP client to use. If nil, a single-attempt
	// resilient client is created.
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap current-weather client.
type Client struct {
	apiKey      string
	baseURL     string
	defaultCity string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	defaultCity := cfg.DefaultCity
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName))
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		defaultCity: defaultCity,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentByCity fetches current conditions for a named location in metric
// units. An empty name falls back to the configured default city. One
// request, no retries; the aggregator decides what a failure means.
func (c *Client) CurrentByCity(ctx context.Context, city string) (*weather.Report, error) {
	if c.apiKey == "" {
		return nil, &provider.ConfigError{Setting: "OWM_API_KEY"}
	}

	city = strings.TrimSpace(city)
	if city == "" {
		city = c.defaultCity
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.FromTransport(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.UpstreamError{Source: sourceName, StatusCode: resp.StatusCode}
	}

	var owm currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&owm); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	c.logger.Debug().Str("city", city).Msg("fetched current weather")
	return toReport(&owm), nil
}

// toReport normalizes an OpenWeatherMap response into the domain record.
func toReport(resp *currentResponse) *weather.Report {
	report := &weather.Report{
		Location:    resp.Name,
		CountryCode: resp.Sys.Country,
		Condition:   conditionText(resp.Weather),
		RainMM:      rainfallMM(resp.Rain),
	}

	if resp.Coord != nil {
		report.Coord = &weather.Coordinate{Lat: resp.Coord.Lat, Lon: resp.Coord.Lon}
	}
	// Readings are reported as whole numbers, fractional part dropped.
	if resp.Main.Temp != nil {
		t := int(*resp.Main.Temp)
		report.TempC = &t
	}
	if resp.Main.Humidity != nil {
		h := int(*resp.Main.Humidity)
		report.HumidityPct = &h
	}

	return report
}

// conditionText title-cases the first listed condition's description.
func conditionText(conditions []conditionEntry) string {
	if len(conditions) == 0 {
		return ""
	}
	return cases.Title(language.English).String(conditions[0].Description)
}

// rainfallMM prefers the 1-hour measurement over the 3-hour measurement
// over zero, rounded to one decimal.
func rainfallMM(rain *rainBlock) float64 {
	if rain == nil {
		return 0
	}
	var mm float64
	switch {
	case rain.OneHour != nil:
		mm = *rain.OneHour
	case rain.ThreeHour != nil:
		mm = *rain.ThreeHour
	}
	return math.Round(mm*10) / 10
}

// OpenWeatherMap API response structures.

type conditionEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type rainBlock struct {
	OneHour   *float64 `json:"1h"`
	ThreeHour *float64 `json:"3h"`
}

type currentResponse struct {
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []conditionEntry `json:"weather"`
	Main    struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Rain *rainBlock `json:"rain"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}
