// Package airquality defines the normalized air-quality record produced by
// the air-quality source.
package airquality

// Category labels for the 1-5 air-quality index.
const (
	CategoryGood        = "Good"
	CategoryFair        = "Fair"
	CategoryModerate    = "Moderate"
	CategoryPoor        = "Poor"
	CategoryVeryPoor    = "Very Poor"
	CategoryUnavailable = "Unavailable"
)

// Reading is the normalized air-quality record for one coordinate. Index is
// nil when the upstream did not report one; Category is always populated,
// falling back to CategoryUnavailable.
type Reading struct {
	Index      *int               `json:"index,omitempty"`
	Category   string             `json:"category"`
	Components map[string]float64 `json:"components,omitempty"`
}

var categories = map[int]string{
	1: CategoryGood,
	2: CategoryFair,
	3: CategoryModerate,
	4: CategoryPoor,
	5: CategoryVeryPoor,
}

// CategoryForIndex maps an air-quality index to its display label. The
// mapping is total: a missing or out-of-range index maps to
// CategoryUnavailable.
func CategoryForIndex(index *int) string {
	if index == nil {
		return CategoryUnavailable
	}
	if label, ok := categories[*index]; ok {
		return label
	}
	return CategoryUnavailable
}
