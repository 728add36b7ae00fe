package openweathermap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envpulse/envpulse/internal/airquality"
	"github.com/envpulse/envpulse/internal/airquality/openweathermap"
	"github.com/envpulse/envpulse/internal/provider"
)

func TestClient_ByCoord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air_pollution", r.URL.Path)
		assert.Equal(t, "30.3165", r.URL.Query().Get("lat"))
		assert.Equal(t, "78.0322", r.URL.Query().Get("lon"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))

		w.Write([]byte(`{
			"list": [{
				"main": {"aqi": 3},
				"components": {"co": 201.9, "no2": 0.77, "pm2_5": 15.4, "pm10": 24.1}
			}]
		}`))
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	reading, err := client.ByCoord(context.Background(), 30.3165, 78.0322)
	require.NoError(t, err)

	require.NotNil(t, reading.Index)
	assert.Equal(t, 3, *reading.Index)
	assert.Equal(t, airquality.CategoryModerate, reading.Category)
	assert.Equal(t, 15.4, reading.Components["pm2_5"])
	assert.Len(t, reading.Components, 4)
}

func TestClient_ByCoord_NoReadings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": []}`))
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.ByCoord(context.Background(), 30.3, 78.0)

	var shapeErr *provider.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "air quality endpoint", shapeErr.Source)
}

func TestClient_ByCoord_MissingIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": [{"main": {}, "components": {"co": 100.1}}]}`))
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{APIKey: "k", BaseURL: server.URL})

	reading, err := client.ByCoord(context.Background(), 30.3, 78.0)
	require.NoError(t, err)

	assert.Nil(t, reading.Index)
	assert.Equal(t, airquality.CategoryUnavailable, reading.Category)
	assert.Equal(t, 100.1, reading.Components["co"])
}

func TestClient_ByCoord_MissingAPIKey(t *testing.T) {
	client := openweathermap.NewClient(openweathermap.ClientConfig{})

	_, err := client.ByCoord(context.Background(), 30.3, 78.0)

	var cfgErr *provider.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestClient_ByCoord_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.ByCoord(context.Background(), 30.3, 78.0)

	var upErr *provider.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
}
