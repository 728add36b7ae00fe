package handler

import (
	"net/http"
	"time"

	"github.com/envpulse/envpulse/internal/api/models"
	"github.com/envpulse/envpulse/internal/api/response"
	"github.com/envpulse/envpulse/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	sources   *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. sources may be nil, in which case
// the status endpoint reports no sources.
func NewOpsHandler(version, buildTime string, sources *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		sources:   sources,
	}
}

// HealthCheck handles GET /v1/ops/health, the liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]string{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The service holds no state and
// degrades per source, so readiness mirrors liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status, reporting the breaker state of
// each upstream source. Any open circuit degrades the overall status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:  models.HealthStatusOK,
		Time:    time.Now().UTC(),
		Sources: []models.SourceStatus{},
	}

	if h.sources != nil {
		for _, sh := range h.sources.AllHealth() {
			srcStatus := models.HealthStatusOK
			if !sh.Healthy() {
				srcStatus = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			status.Sources = append(status.Sources, models.SourceStatus{
				Name:          sh.Name,
				Status:        srcStatus,
				CircuitState:  sh.CircuitState.String(),
				LastSuccessAt: sh.LastSuccessAt,
				LastFailureAt: sh.LastFailureAt,
				LastError:     sh.LastError,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
