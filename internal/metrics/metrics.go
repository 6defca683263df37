// Package metrics provides Prometheus metrics for the chat service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the chat service
type Metrics struct {
	// Submission metrics
	SubmissionsTotal        *prometheus.CounterVec // kind: create|edit
	SubmissionFailuresTotal *prometheus.CounterVec // step: persist_message|generate|persist_reply|refresh
	SubmissionsRejected     *prometheus.CounterVec // reason: empty|busy

	// Provider metrics
	ProviderRequestsTotal   *prometheus.CounterVec // provider, status: ok|error
	ProviderRequestDuration *prometheus.HistogramVec

	// Audit trail
	PromptWriteFailuresTotal prometheus.Counter
}

// New creates and registers all metrics against the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_submissions_total",
				Help: "Total number of accepted message submissions",
			},
			[]string{"kind"},
		),
		SubmissionFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_submission_failures_total",
				Help: "Submission failures by saga step",
			},
			[]string{"step"},
		),
		SubmissionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_submissions_rejected_total",
				Help: "Submissions rejected before any store call",
			},
			[]string{"reason"},
		),
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_provider_requests_total",
				Help: "Completion provider calls by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_provider_request_duration_seconds",
				Help:    "Duration of completion provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		PromptWriteFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "arbor_prompt_write_failures_total",
				Help: "Prompt audit rows that failed to persist (non-fatal)",
			},
		),
	}
}
