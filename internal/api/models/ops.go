package models

import "time"

// Health statuses reported by the ops endpoints.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health represents the health of the service.
type Health struct {
	Status  string            `json:"status"`
	Time    time.Time         `json:"time"`
	Details map[string]string `json:"details,omitempty"`
}

// SystemStatus reports the service status alongside its upstream sources.
type SystemStatus struct {
	Status  string         `json:"status"`
	Time    time.Time      `json:"time"`
	Sources []SourceStatus `json:"sources"`
}

// SourceStatus describes one upstream data source.
type SourceStatus struct {
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	CircuitState  string     `json:"circuitState"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time `json:"lastFailureAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}
