// Package openweathermap provides the OpenWeatherMap air-pollution client.
// It shares the credential category with the weather client but is a
// separate source with its own failure domain.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/envpulse/envpulse/internal/airquality"
	"github.com/envpulse/envpulse/internal/provider"
	"github.com/envpulse/envpulse/internal/provider/resilience"
)

const (
	// ProviderName identifies this source in logs and the health registry.
	ProviderName = "openweathermap-air"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	sourceName = "air quality endpoint"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the air-pollution client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap credential (required at call time).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a single-attempt
	// resilient client is created.
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap air-pollution client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new air-pollution client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ByCoord fetches the air-quality reading for a coordinate pair. A
// structurally successful response with no readings is a ShapeError,
// distinct from a transport failure.
func (c *Client) ByCoord(ctx context.Context, lat, lon float64) (*airquality.Reading, error) {
	if c.apiKey == "" {
		return nil, &provider.ConfigError{Setting: "OWM_API_KEY"}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/air_pollution?"+q.Encode(), http.NoBody)
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

	var owm pollutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&owm); err != nil {
		return nil, fmt.Errorf("decoding air quality response: %w", err)
	}

	if len(owm.List) == 0 {
		return nil, &provider.ShapeError{Source: sourceName, Reason: "response contained no readings"}
	}

	first := owm.List[0]
	reading := &airquality.Reading{
		Index:      first.Main.AQI,
		Category:   airquality.CategoryForIndex(first.Main.AQI),
		Components: first.Components,
	}

	c.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("category", reading.Category).
		Msg("fetched air quality")
	return reading, nil
}

// OpenWeatherMap air pollution response structures.

type pollutionResponse struct {
	List []struct {
		Main struct {
			AQI *int `json:"aqi"`
		} `json:"main"`
		Components map[string]float64 `json:"components"`
	} `json:"list"`
}
