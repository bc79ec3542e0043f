// Package metrics defines the Prometheus collectors for the MCP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ThoughtsRecorded counts successfully recorded thoughts.
	ThoughtsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ponder_thoughts_recorded_total",
		Help: "Total number of thoughts recorded in the session",
	})

	// ThoughtValidationFailures counts rejected thought payloads.
	ThoughtValidationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ponder_thought_validation_failures_total",
		Help: "Total number of thought payloads rejected by validation",
	})

	// HistoryClears counts explicit history resets.
	HistoryClears = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ponder_history_clears_total",
		Help: "Total number of thought history clears",
	})

	// SearchRequests counts arXiv tool invocations by tool name and outcome.
	SearchRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ponder_arxiv_requests_total",
		Help: "Total number of arXiv tool invocations",
	}, []string{"tool", "outcome"})

	// SearchDuration observes arXiv tool latency.
	SearchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "ponder_arxiv_request_duration_seconds",
		Help: "Duration of arXiv tool invocations",
	}, []string{"tool"})
)

func init() {
	prometheus.MustRegister(
		ThoughtsRecorded,
		ThoughtValidationFailures,
		HistoryClears,
		SearchRequests,
		SearchDuration,
	)
}
