// Package seismic defines the normalized seismic event record produced by
// the seismic-event source.
package seismic

import "time"

// Event is one seismic event scraped from the feed. Magnitude is nil when
// no cell held a parseable figure, since a reported event may legitimately lack a
// confirmed magnitude at source. At is nil when the timestamp cells were
// garbled; such events cannot be verified as recent and are dropped by the
// recency filter.
type Event struct {
	Location  string     `json:"location"`
	Magnitude *float64   `json:"magnitude,omitempty"`
	At        *time.Time `json:"at,omitempty"`
}
