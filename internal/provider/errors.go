// Package provider defines the error taxonomy shared by the upstream source
// clients. Every source failure is classified as one of four kinds so the
// aggregator can report it without aborting the overall collection.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
)

// ConfigError reports a missing credential or setting. It is not retryable;
// an operator has to fix the configuration.
type ConfigError struct {
	// Setting is the name of the missing configuration value.
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

// UpstreamError reports a non-success HTTP response from a source.
type UpstreamError struct {
	Source     string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d (%s)",
		e.Source, e.StatusCode, http.StatusText(e.StatusCode))
}

// ShapeError reports a structurally successful response that is missing the
// fields a source needs. Distinct from UpstreamError: the transport worked,
// the payload did not.
type ShapeError struct {
	Source string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s returned unusable data: %s", e.Source, e.Reason)
}

// TimeoutError reports a source call that did not complete within the
// per-call deadline.
type TimeoutError struct {
	Source string
}

func (e *TimeoutError) Error() string {
	return e.Source + " timed out"
}

// FromTransport classifies a transport-level error from an HTTP client call.
// Deadline expiry in any form becomes a TimeoutError; everything else is
// wrapped with the source name.
func FromTransport(source string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &TimeoutError{Source: source}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &TimeoutError{Source: source}
	}
	return fmt.Errorf("%s: %w", source, err)
}
