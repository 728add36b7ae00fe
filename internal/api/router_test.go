package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envpulse/envpulse/internal/alerts"
	"github.com/envpulse/envpulse/internal/api"
	"github.com/envpulse/envpulse/internal/seismic"
	"github.com/envpulse/envpulse/internal/summary"
)

// stubCollector returns a canned summary and records the requested location.
type stubCollector struct {
	gotLocation string
}

func (c *stubCollector) Collect(_ context.Context, location string) *summary.Summary {
	c.gotLocation = location
	return &summary.Summary{
		Location:      "Dehradun",
		Alerts:        alerts.NoWarnings(),
		SeismicEvents: []seismic.Event{},
		SourceErrors:  []string{},
		CollectedAt:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func newTestRouter(collector *stubCollector) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Version:   "test",
		BuildTime: "2024-01-01T00:00:00Z",
		Logger:    zerolog.New(io.Discard),
		Collector: collector,
	})
}

func TestRouter_GetSummary(t *testing.T) {
	collector := &stubCollector{}
	router := newTestRouter(collector)

	req := httptest.NewRequest(http.MethodGet, "/v1/summary?location=Haridwar", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Haridwar", collector.gotLocation)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body summary.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Dehradun", body.Location)
	assert.Empty(t, body.SourceErrors)
}

func TestRouter_GetSummary_NoLocation(t *testing.T) {
	collector := &stubCollector{}
	router := newTestRouter(collector)

	req := httptest.NewRequest(http.MethodGet, "/v1/summary", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, collector.gotLocation)
}

func TestRouter_GetSummary_LocationTooLong(t *testing.T) {
	router := newTestRouter(&stubCollector{})

	req := httptest.NewRequest(http.MethodGet, "/v1/summary?location="+strings.Repeat("x", 101), http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&stubCollector{})

	for _, path := range []string{"/v1/ops/health", "/v1/ops/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_Status_NoSources(t *testing.T) {
	router := newTestRouter(&stubCollector{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string        `json:"status"`
		Sources []interface{} `json:"sources"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Sources)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(&stubCollector{})

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
