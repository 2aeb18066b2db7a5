package metrics

import (
	"time"

	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// DriftMetrics tracks metrics for the OpenAPI drift detector.
//
// Metrics:
//   - sentinel_drift_findings_total: drift findings by kind
//   - sentinel_drift_check_duration_seconds: time spent comparing one flow against loaded specs
//   - sentinel_drift_specs_loaded: number of specs currently loaded for comparison
type DriftMetrics struct {
	findingsTotal *prometheus.CounterVec
	checkDuration prometheus.Histogram
	specsLoaded   prometheus.Gauge
}

// NewDriftMetrics creates and registers drift metrics with the provided
// registry.
func NewDriftMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DriftMetrics {
	dm := &DriftMetrics{
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "drift_findings_total",
				Help:      "Total number of drift findings by kind",
			},
			// kind: undocumented_method, undocumented_path, removed_endpoint
			[]string{"kind"},
		),

		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "drift_check_duration_seconds",
				Help:      "Time spent comparing one flow against all loaded specs",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),

		specsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "drift_specs_loaded",
				Help:      "Number of OpenAPI specs currently loaded for drift comparison",
			},
		),
	}

	registry.MustRegister(dm.findingsTotal, dm.checkDuration, dm.specsLoaded)
	return dm
}

// RecordFinding records a drift finding of the given kind.
func (dm *DriftMetrics) RecordFinding(kind string) {
	dm.findingsTotal.WithLabelValues(kind).Inc()
}

// RecordCheckDuration records how long a single drift comparison took.
func (dm *DriftMetrics) RecordCheckDuration(duration time.Duration) {
	dm.checkDuration.Observe(duration.Seconds())
}

// SetSpecsLoaded updates the gauge tracking how many specs are loaded.
func (dm *DriftMetrics) SetSpecsLoaded(n int) {
	dm.specsLoaded.Set(float64(n))
}
