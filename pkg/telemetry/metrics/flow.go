package metrics

import (
	"time"

	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// flowDurationBuckets covers proxy round-trip latency from CONNECT through
// the final response byte: sub-millisecond passthrough up to a stalled
// upstream.
var flowDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// FlowMetrics tracks metrics for intercepted HTTP(S)/WebSocket traffic.
//
// Metrics:
//   - sentinel_flows_total: total flows by method, status class, source
//   - sentinel_flow_duration_seconds: flow round-trip duration histogram
//   - sentinel_flow_body_bytes: request/response body size histogram
type FlowMetrics struct {
	flowsTotal    *prometheus.CounterVec
	flowDuration  *prometheus.HistogramVec
	flowBodyBytes *prometheus.HistogramVec
}

// NewFlowMetrics creates and registers flow metrics with the provided registry.
func NewFlowMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FlowMetrics {
	fm := &FlowMetrics{
		flowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "flows_total",
				Help:      "Total number of intercepted flows",
			},
			[]string{"method", "status_class", "source"},
		),

		flowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "flow_duration_seconds",
				Help:      "Duration of a flow from request start to response completion",
				Buckets:   flowDurationBuckets,
			},
			[]string{"method"},
		),

		flowBodyBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "flow_body_bytes",
				Help:      "Size of captured request/response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10), // 256B .. 64MB
			},
			[]string{"direction"},
		),
	}

	registry.MustRegister(fm.flowsTotal, fm.flowDuration, fm.flowBodyBytes)
	return fm
}

// RecordFlow records a completed flow.
func (fm *FlowMetrics) RecordFlow(method string, statusCode int, source string, duration time.Duration) {
	fm.flowsTotal.WithLabelValues(method, statusClass(statusCode), source).Inc()
	fm.flowDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordBodySize records the size of a captured request or response body.
// direction is "request" or "response".
func (fm *FlowMetrics) RecordBodySize(direction string, sizeBytes int) {
	if sizeBytes > 0 {
		fm.flowBodyBytes.WithLabelValues(direction).Observe(float64(sizeBytes))
	}
}

// statusClass buckets an HTTP status code into its class ("2xx", "4xx", ...)
// to keep the status label's cardinality bounded.
func statusClass(statusCode int) string {
	switch {
	case statusCode <= 0:
		return "unknown"
	case statusCode < 200:
		return "1xx"
	case statusCode < 300:
		return "2xx"
	case statusCode < 400:
		return "3xx"
	case statusCode < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
