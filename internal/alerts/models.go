// Package alerts defines the normalized warning bulletin produced by the
// warning-bulletin source.
package alerts

// Sentinel summary lines. SummaryNoWarnings is a normal outcome, meaning the
// bulletin had no notices for the region. SummaryUnavailable is substituted
// by the aggregator when the bulletin could not be fetched at all, so the
// alerts field stays renderable.
const (
	SummaryNoWarnings  = "No weather warnings in effect"
	SummaryUnavailable = "Alerts service unavailable"
)

// Bulletin summarizes the authority's warning notices for the target region.
// Summary is the first notable notice, or one of the sentinel lines.
type Bulletin struct {
	Summary string   `json:"summary"`
	Notices []string `json:"notices"`
}

// NoWarnings returns the clean "nothing in effect" bulletin.
func NoWarnings() *Bulletin {
	return &Bulletin{Summary: SummaryNoWarnings, Notices: []string{}}
}

// Unavailable returns the substitute bulletin for a failed fetch.
func Unavailable() *Bulletin {
	return &Bulletin{Summary: SummaryUnavailable, Notices: []string{}}
}
