package metrics

import (
	"time"

	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ScannerMetrics tracks metrics for the passive vulnerability-pattern scanner.
//
// Metrics:
//   - sentinel_scanner_evaluations_total: rule evaluations by rule and outcome
//   - sentinel_scanner_evaluation_duration_seconds: per-rule evaluation duration
//   - sentinel_scanner_findings_total: findings recorded by rule and severity
type ScannerMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	findingsTotal      *prometheus.CounterVec

	cardinality *CardinalityLimiter
}

// NewScannerMetrics creates and registers scanner metrics with the provided
// registry. A cardinality limiter guards the rule_id label, since custom
// rules are user-supplied and otherwise unbounded.
func NewScannerMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ScannerMetrics {
	sm := &ScannerMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scanner_evaluations_total",
				Help:      "Total number of rule evaluations by outcome",
			},
			[]string{"rule_id", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scanner_evaluation_duration_seconds",
				Help:      "Duration of a single rule evaluation against one flow",
				// Regex/entropy checks against a capped body should be fast.
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs .. ~2.6s
			},
			[]string{"rule_id"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scanner_findings_total",
				Help:      "Total number of findings recorded by rule and severity",
			},
			[]string{"rule_id", "severity"},
		),

		cardinality: NewCardinalityLimiter(5000),
	}

	registry.MustRegister(sm.evaluationsTotal, sm.evaluationDuration, sm.findingsTotal)
	return sm
}

func (sm *ScannerMetrics) ruleLabel(ruleID string) string {
	if sm.cardinality.Allow(ruleID) {
		return ruleID
	}
	return "other"
}

// RecordEvaluation records one rule evaluated against one flow. outcome is
// "match" or "no_match".
func (sm *ScannerMetrics) RecordEvaluation(ruleID, outcome string, duration time.Duration) {
	ruleID = sm.ruleLabel(ruleID)
	sm.evaluationsTotal.WithLabelValues(ruleID, outcome).Inc()
	sm.evaluationDuration.WithLabelValues(ruleID).Observe(duration.Seconds())
}

// RecordFinding records a finding surfaced by a rule.
func (sm *ScannerMetrics) RecordFinding(ruleID, severity string) {
	sm.findingsTotal.WithLabelValues(sm.ruleLabel(ruleID), severity).Inc()
}
