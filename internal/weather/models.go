// Package weather defines the normalized current-conditions record produced
// by the weather source.
package weather

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report is the normalized weather record for one location. It is built
// fresh per aggregation call and never persisted.
//
// Optional readings are pointers: nil means the upstream response did not
// carry the field, which is distinct from a zero reading. Rainfall is the
// exception: the upstream omits the rain block entirely in dry conditions,
// so a missing block normalizes to 0, not absent.
type Report struct {
	Location    string      `json:"location"`
	CountryCode string      `json:"countryCode,omitempty"`
	Coord       *Coordinate `json:"coord,omitempty"`
	TempC       *int        `json:"tempC,omitempty"`
	Condition   string      `json:"condition"`
	HumidityPct *int        `json:"humidityPct,omitempty"`
	RainMM      float64     `json:"rainMm"`
}
