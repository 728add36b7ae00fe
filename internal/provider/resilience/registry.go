package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// SourceHealth is a point-in-time view of one registered source.
type SourceHealth struct {
	// Name is the source identifier (weather, air-quality, alerts, seismic).
	Name string

	// CircuitState is the source's current breaker state.
	CircuitState gobreaker.State

	// Counts carries the breaker's request statistics.
	Counts gobreaker.Counts

	// LastSuccessAt and LastFailureAt are set by the source clients.
	LastSuccessAt *time.Time
	LastFailureAt *time.Time

	// LastError is the most recent failure description, if any.
	LastError string
}

// Healthy reports whether the source's breaker is closed.
func (h *SourceHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks the source clients so the ops endpoints can report which
// upstreams are currently degraded.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*registeredSource
}

type registeredSource struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*registeredSource)}
}

// Register adds a source client under name, replacing any previous entry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = &registeredSource{client: client}
}

// RecordSuccess notes a successful call for the named source.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sources[name]; ok {
		now := time.Now()
		s.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call for the named source.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sources[name]; ok {
		now := time.Now()
		s.lastFailureAt = &now
		if err != nil {
			s.lastError = err.Error()
		}
	}
}

// Health returns the health of one source, or nil if it is not registered.
func (r *Registry) Health(name string) *SourceHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	if !ok {
		return nil
	}
	return snapshot(name, s)
}

// AllHealth returns the health of every registered source.
func (r *Registry) AllHealth() []*SourceHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*SourceHealth, 0, len(r.sources))
	for name, s := range r.sources {
		out = append(out, snapshot(name, s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func snapshot(name string, s *registeredSource) *SourceHealth {
	return &SourceHealth{
		Name:          name,
		CircuitState:  s.client.State(),
		Counts:        s.client.Counts(),
		LastSuccessAt: s.lastSuccessAt,
		LastFailureAt: s.lastFailureAt,
		LastError:     s.lastError,
	}
}
