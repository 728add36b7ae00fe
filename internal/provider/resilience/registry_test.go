package resilience_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envpulse/envpulse/internal/provider/resilience"
)

func TestRegistry_Health(t *testing.T) {
	reg := resilience.NewRegistry()
	reg.Register("weather", resilience.NewClient(resilience.SingleAttemptConfig("weather")))
	reg.Register("seismic", resilience.NewClient(resilience.SingleAttemptConfig("seismic")))

	assert.Nil(t, reg.Health("unknown"))

	h := reg.Health("weather")
	require.NotNil(t, h)
	assert.Equal(t, "weather", h.Name)
	assert.Equal(t, gobreaker.StateClosed, h.CircuitState)
	assert.True(t, h.Healthy())
	assert.Nil(t, h.LastSuccessAt)

	reg.RecordSuccess("weather")
	reg.RecordFailure("seismic", errors.New("feed unreachable"))

	h = reg.Health("weather")
	require.NotNil(t, h.LastSuccessAt)

	h = reg.Health("seismic")
	require.NotNil(t, h.LastFailureAt)
	assert.Equal(t, "feed unreachable", h.LastError)

	all := reg.AllHealth()
	assert.Len(t, all, 2)
}
