package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersEventsCounter(t *testing.T) {
	r := NewRegistry()
	r.EventsProcessed.Inc()
	r.EventsProcessed.Inc()

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "pytrainsim_events_processed_total" {
			found = true
			assert.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "events_processed_total must be registered")
}

func TestNewRegistryOccupancyGaugeVecIsLabeledByResource(t *testing.T) {
	r := NewRegistry()
	r.Occupancy.WithLabelValues("A_B").Set(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Occupancy.WithLabelValues("A_B")))
}
