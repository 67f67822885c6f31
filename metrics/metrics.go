// Package metrics instruments the engine for observability. These are
// pure side-channel observations: nothing in the simulation loop
// reads them back, and the runner treats a nil *Registry as
// instrumentation disabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry wraps a dedicated prometheus.Registerer so repeated runs
// in the same process (e.g. batch config sweeps) don't collide on the
// global default registry.
type Registry struct {
	reg *prometheus.Registry

	Occupancy       *prometheus.GaugeVec
	EventsProcessed prometheus.Counter
	TaskDelay       prometheus.Histogram
}

// NewRegistry builds and registers the engine's metric families.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pytrainsim",
		Name:      "resource_occupancy",
		Help:      "Current occupancy of an infrastructure element.",
	}, []string{"resource"})

	events := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pytrainsim",
		Name:      "events_processed_total",
		Help:      "Total number of events popped off the runner's queue.",
	})

	delay := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pytrainsim",
		Name:      "task_delay_seconds",
		Help:      "Primary delay, in seconds, injected per completed task.",
		Buckets:   prometheus.DefBuckets,
	})

	reg.MustRegister(occupancy, events, delay)

	return &Registry{reg: reg, Occupancy: occupancy, EventsProcessed: events, TaskDelay: delay}
}

// Gatherer exposes the underlying registry for an HTTP /metrics
// handler, kept out of this package since exposing it is the caller's
// concern (§1's external-collaborator list names "logging setup";
// hosting an HTTP endpoint is the analogous CLI-host concern).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
