// Package summary assembles the composite environmental picture for one
// location from the four upstream sources, tolerating the failure of any of
// them. A failed source degrades the summary; it never aborts it.
package summary

import (
	"time"

	"github.com/envpulse/envpulse/internal/airquality"
	"github.com/envpulse/envpulse/internal/alerts"
	"github.com/envpulse/envpulse/internal/seismic"
	"github.com/envpulse/envpulse/internal/weather"
)

// Summary is the composite result of one aggregation call.
//
// Weather and AirQuality are nil when their source failed; absence means
// "unavailable", not zero readings. Alerts is always renderable: a failed
// bulletin fetch substitutes the unavailable sentinel. Each failed source
// contributes one human-readable entry to SourceErrors, so its length never
// exceeds four and a populated field never has a matching error entry.
type Summary struct {
	Location      string              `json:"location"`
	Weather       *weather.Report     `json:"weather,omitempty"`
	AirQuality    *airquality.Reading `json:"airQuality,omitempty"`
	Alerts        *alerts.Bulletin    `json:"alerts"`
	SeismicEvents []seismic.Event     `json:"seismicEvents"`
	SourceErrors  []string            `json:"sourceErrors"`
	CollectedAt   time.Time           `json:"collectedAt"`
}
