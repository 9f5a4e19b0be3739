// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SearchRequests counts search connector invocations by engine and outcome.
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnichat_search_requests_total",
			Help: "Total number of search connector calls",
		},
		[]string{"engine", "status"},
	)

	// CompletionRequests counts completion connector invocations by provider
	// and outcome.
	CompletionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnichat_completion_requests_total",
			Help: "Total number of completion provider calls",
		},
		[]string{"provider", "status"},
	)

	// TurnDuration observes end-to-end chat turn latency by dispatch path.
	TurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omnichat_turn_duration_seconds",
			Help:    "Chat turn duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"path"},
	)
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

func init() {
	prometheus.MustRegister(SearchRequests)
	prometheus.MustRegister(CompletionRequests)
	prometheus.MustRegister(TurnDuration)
}

// StatusFor maps an error to a status label value.
func StatusFor(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
