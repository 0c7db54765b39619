// Package metrics holds the Prometheus collectors for the planning pipeline.
// They are registered on the default registry and served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripplanner"

// Planning outcomes, one per terminal state of a planning call.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeConfiguration = "configuration"
	OutcomeUnavailable   = "unavailable"
	OutcomeMalformed     = "malformed"
	OutcomeStorage       = "storage"
	OutcomeInternal      = "internal"
)

var (
	planningRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "planning_requests_total",
			Help:      "Planning calls by terminal outcome.",
		},
		[]string{"outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of calls to the generation provider.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"transport"},
	)

	generationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Failed generation calls by failure kind.",
		},
		[]string{"kind"},
	)
)

// ObservePlanning counts one finished planning call.
func ObservePlanning(outcome string) {
	planningRequests.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records the latency of one provider call.
func ObserveGeneration(transport string, d time.Duration) {
	generationDuration.WithLabelValues(transport).Observe(d.Seconds())
}

// ObserveGenerationFailure counts one failed provider call.
func ObserveGenerationFailure(kind string) {
	generationFailures.WithLabelValues(kind).Inc()
}
