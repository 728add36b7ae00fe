// Package handler provides HTTP handlers for the envpulse API.
package handler

import (
	"context"
	"net/http"

	"github.com/envpulse/envpulse/internal/api/response"
	"github.com/envpulse/envpulse/internal/summary"
)

// maxLocationLen bounds the location query parameter.
const maxLocationLen = 100

// SummaryCollector produces a composite environmental summary for a location.
type SummaryCollector interface {
	Collect(ctx context.Context, location string) *summary.Summary
}

// SummaryHandler handles the summary endpoint.
type SummaryHandler struct {
	collector SummaryCollector
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(collector SummaryCollector) *SummaryHandler {
	return &SummaryHandler{collector: collector}
}

// GetSummary handles GET /v1/summary. Collection is fail-soft: source
// failures are reported inside the summary body, so the response is 200
// even when every upstream is down.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if len(location) > maxLocationLen {
		response.BadRequest(w, r, "location must be at most 100 characters")
		return
	}

	s := h.collector.Collect(r.Context(), location)
	response.JSON(w, r, http.StatusOK, s)
}
