package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the manifest module.
type Metrics struct {
	// Validation outcomes and per-rule failure counts
	ValidationRuns     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Status transitions, attempted and denied
	Transitions       *prometheus.CounterVec
	TransitionsDenied *prometheus.CounterVec

	// Edits rejected because the document was locked
	LockedEdits *prometheus.CounterVec

	// Full assemble/submit latency
	SubmitLatency prometheus.Histogram
}

// New creates a Metrics instance with all manifest module metrics registered.
func New() *Metrics {
	return &Metrics{
		ValidationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emanifest_validation_runs_total",
			Help: "Total validation passes by outcome",
		}, []string{"outcome"}), // outcome: "valid", "invalid"

		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emanifest_validation_failures_total",
			Help: "Total field validation failures by field path",
		}, []string{"field"}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emanifest_status_transitions_total",
			Help: "Total applied status transitions by source and target",
		}, []string{"from", "to"}),

		TransitionsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emanifest_status_transitions_denied_total",
			Help: "Total denied status transitions by source and target",
		}, []string{"from", "to"}),

		LockedEdits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emanifest_locked_edit_attempts_total",
			Help: "Total edit attempts rejected on locked manifests by lock reason",
		}, []string{"reason"}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "emanifest_submit_duration_seconds",
			Help:    "Duration of full assemble and persist on submission",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveValidation records one validation pass and its failure fields.
func (m *Metrics) ObserveValidation(failedFields []string) {
	if m == nil {
		return
	}
	outcome := "valid"
	if len(failedFields) > 0 {
		outcome = "invalid"
	}
	m.ValidationRuns.WithLabelValues(outcome).Inc()
	for _, field := range failedFields {
		m.ValidationFailures.WithLabelValues(field).Inc()
	}
}

// IncrementTransition records an applied status change.
func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

// IncrementTransitionDenied records a rejected status change.
func (m *Metrics) IncrementTransitionDenied(from, to string) {
	if m != nil {
		m.TransitionsDenied.WithLabelValues(from, to).Inc()
	}
}

// IncrementLockedEdit records an edit bounced off a locked manifest.
func (m *Metrics) IncrementLockedEdit(reason string) {
	if m != nil {
		m.LockedEdits.WithLabelValues(reason).Inc()
	}
}

// ObserveSubmitLatency records the duration of a submission attempt.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}
