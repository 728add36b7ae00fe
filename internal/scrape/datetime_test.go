package scrape_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envpulse/envpulse/internal/scrape"
)

func TestParseStamp_SlashDayMonthYear(t *testing.T) {
	got, ok := scrape.ParseStamp("15/03/2024", "10:30", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestParseStamp_WithSeconds(t *testing.T) {
	got, ok := scrape.ParseStamp("01-02-2024", "23:59:07", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 1, 23, 59, 7, 0, time.UTC), got)
}

func TestParseStamp_AlreadyYearFirst(t *testing.T) {
	got, ok := scrape.ParseStamp("2024-03-15", "10:30", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestParseStamp_MarkupInCells(t *testing.T) {
	got, ok := scrape.ParseStamp("<b>15/03/2024</b>", "&nbsp;10:30", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestParseStamp_Location(t *testing.T) {
	ist := time.FixedZone("IST", int(5*time.Hour+30*time.Minute)/int(time.Second))
	got, ok := scrape.ParseStamp("15/03/2024", "10:30", ist)
	require.True(t, ok)
	assert.Equal(t, "IST", got.Location().String())
	assert.Equal(t, 10, got.Hour())
}

func TestParseStamp_Unparsable(t *testing.T) {
	cases := []struct{ date, clock string }{
		{"", ""},
		{"garbage", "10:30"},
		{"15/03/2024", "later"},
		{"32/03/2024", "10:30"}, // no such day
		{"15/13/2024", "10:30"}, // no such month
	}
	for _, tc := range cases {
		_, ok := scrape.ParseStamp(tc.date, tc.clock, time.UTC)
		assert.False(t, ok, "expected %q %q to be unparsable", tc.date, tc.clock)
	}
}
