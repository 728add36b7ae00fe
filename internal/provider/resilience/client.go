// Package resilience provides the HTTP client wrapper used for upstream
// source calls: per-call timeout, a circuit breaker per source, and optional
// exponential-backoff retry. Aggregation calls run with retries disabled so a
// flaky source degrades the summary instead of stretching its latency.
package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the source's circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for a source HTTP client.
type ClientConfig struct {
	// Name identifies the source for breaker naming and the health registry.
	Name string

	// Timeout bounds each HTTP call. Default: 15 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first call.
	// Zero means a single attempt.
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval. Default: 200ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval. Default: 5 seconds.
	MaxInterval time.Duration

	// Breaker configures the circuit breaker. If nil, DefaultBreakerConfig
	// for Name is used.
	Breaker *BreakerConfig
}

// SingleAttemptConfig returns the configuration used for aggregation calls:
// one attempt per call, 15 second timeout, default breaker.
func SingleAttemptConfig(name string) ClientConfig {
	return ClientConfig{
		Name:       name,
		Timeout:    15 * time.Second,
		MaxRetries: 0,
	}
}

// Client is an HTTP client bound to one upstream source.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a source HTTP client from cfg, filling in defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	bc := cfg.Breaker
	if bc == nil {
		def := DefaultBreakerConfig(cfg.Name)
		bc = &def
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](*bc), //nolint:bodyclose // type parameter, not a response
		config:     cfg,
	}
}

// Do executes the request through the circuit breaker. When retries are
// configured, 5xx responses and transport errors are retried with
// exponential backoff; the final 5xx response is returned to the caller
// rather than swallowed, so status handling stays in the source client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, doErr := c.httpClient.Do(req.Clone(ctx))
			if doErr != nil {
				return nil, doErr
			}
			// 5xx counts as a breaker failure; the response is still kept.
			if r.StatusCode >= http.StatusInternalServerError {
				return r, &serverError{status: r.StatusCode}
			}
			return r, nil
		})

		if resp != nil {
			lastResp = resp
		}
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			return err
		}
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// State returns the current circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Counts returns the circuit breaker's request counts.
func (c *Client) Counts() gobreaker.Counts {
	return c.breaker.Counts()
}

type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return "server error: " + http.StatusText(e.status)
}
