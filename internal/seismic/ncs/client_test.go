package ncs_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envpulse/envpulse/internal/provider"
	"github.com/envpulse/envpulse/internal/seismic/ncs"
)

// collectedAt is the frozen aggregation instant used by all tests.
var collectedAt = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, body string, status int) *ncs.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "envpulse")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return ncs.NewClient(ncs.ClientConfig{
		FeedURL:  server.URL,
		Region:   "uttarakhand",
		TimeZone: time.UTC,
		Clock:    clockwork.NewFakeClockAt(collectedAt),
	})
}

func feedRow(date, clock, lat, depth, mag, location string) string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
		date, clock, lat, depth, mag, location)
}

func TestClient_Recent_FiltersAndSorts(t *testing.T) {
	body := "<table>" +
		feedRow("15/03/2024", "09:00", "30.1", "10", "4.15", "Chamoli, Uttarakhand") + // 3h old
		feedRow("14/03/2024", "06:00", "30.4", "5", "3.2", "Pithoragarh, Uttarakhand") + // 30h old
		feedRow("15/03/2024", "11:00", "29.9", "12", "2.8", "Tehri, UTTARAKHAND") + // 1h old
		feedRow("15/03/2024", "10:00", "28.6", "8", "5.0", "Kathmandu, Nepal") + // other region
		"</table>"

	events, err := newTestClient(t, body, http.StatusOK).Recent(context.Background())
	require.NoError(t, err)

	// Only the two in-region events inside the trailing 24 hours survive,
	// most recent first.
	require.Len(t, events, 2)
	assert.Equal(t, "Tehri, UTTARAKHAND", events[0].Location)
	assert.Equal(t, "Chamoli, Uttarakhand", events[1].Location)

	require.NotNil(t, events[0].Magnitude)
	assert.Equal(t, 2.8, *events[0].Magnitude)
	require.NotNil(t, events[1].Magnitude)
	assert.Equal(t, 4.2, *events[1].Magnitude) // 4.15 rounds to one decimal

	require.NotNil(t, events[0].At)
	assert.Equal(t, time.Date(2024, time.March, 15, 11, 0, 0, 0, time.UTC), *events[0].At)
}

func TestClient_Recent_UnparsableTimestampExcluded(t *testing.T) {
	body := "<table>" +
		feedRow("awaiting", "update", "30.1", "10", "4.0", "Almora, Uttarakhand") +
		feedRow("15/03/2024", "09:00", "30.1", "10", "4.0", "Chamoli, Uttarakhand") +
		"</table>"

	events, err := newTestClient(t, body, http.StatusOK).Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Chamoli, Uttarakhand", events[0].Location)
}

func TestClient_Recent_MagnitudeFallback(t *testing.T) {
	body := "<table>" +
		// Fifth cell garbled, fourth holds the figure.
		feedRow("15/03/2024", "09:00", "30.1", "3.94", "--", "Chamoli, Uttarakhand") +
		// Neither parses; the event is kept with magnitude absent.
		feedRow("15/03/2024", "10:00", "30.1", "n/a", "tbd", "Tehri, Uttarakhand") +
		"</table>"

	events, err := newTestClient(t, body, http.StatusOK).Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Nil(t, events[0].Magnitude) // Tehri, 10:00
	require.NotNil(t, events[1].Magnitude)
	assert.Equal(t, 3.9, *events[1].Magnitude)
}

func TestClient_Recent_ShortRowsSkipped(t *testing.T) {
	body := "<table><tr><td>15/03/2024</td><td>09:00</td><td>Uttarakhand</td></tr></table>"

	events, err := newTestClient(t, body, http.StatusOK).Recent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_Recent_UpstreamError(t *testing.T) {
	_, err := newTestClient(t, "", http.StatusBadGateway).Recent(context.Background())

	var upErr *provider.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
	assert.Equal(t, "seismic feed", upErr.Source)
}
