package metrics

import (
	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// interceptionLatencyBuckets spans instant auto-forward up to an operator
// sitting on a paused message for minutes.
var interceptionLatencyBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 300}

// InterceptionMetrics tracks metrics for the pausable request/response
// interception pipeline.
//
// Metrics:
//   - sentinel_interceptions_pending: messages currently paused awaiting resolution
//   - sentinel_interception_latency_seconds: time a message spent paused
//   - sentinel_interception_outcomes_total: how paused messages were resolved
type InterceptionMetrics struct {
	pending  *prometheus.GaugeVec
	latency  *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewInterceptionMetrics creates and registers interception metrics with the
// provided registry.
func NewInterceptionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *InterceptionMetrics {
	im := &InterceptionMetrics{
		pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "interceptions_pending",
				Help:      "Number of messages currently paused awaiting resolution",
			},
			[]string{"direction"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "interception_latency_seconds",
				Help:      "Time a message spent paused before resolution",
				Buckets:   interceptionLatencyBuckets,
			},
			[]string{"direction"},
		),

		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "interception_outcomes_total",
				Help:      "Total resolved interceptions by outcome",
			},
			[]string{"direction", "outcome"},
		),
	}

	registry.MustRegister(im.pending, im.latency, im.outcomes)
	return im
}

// IncPending marks a message as newly paused. direction is "request" or
// "response".
func (im *InterceptionMetrics) IncPending(direction string) {
	im.pending.WithLabelValues(direction).Inc()
}

// DecPending marks a paused message as resolved, clearing the pending gauge.
func (im *InterceptionMetrics) DecPending(direction string) {
	im.pending.WithLabelValues(direction).Dec()
}

// RecordResolution records how long a message was paused and how it was
// resolved. outcome is one of "forward", "modify", "drop", or "timeout".
func (im *InterceptionMetrics) RecordResolution(direction string, latencySeconds float64, outcome string) {
	im.latency.WithLabelValues(direction).Observe(latencySeconds)
	im.outcomes.WithLabelValues(direction, outcome).Inc()
}
