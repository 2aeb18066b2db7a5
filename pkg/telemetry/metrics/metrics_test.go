package metrics

import (
	"testing"
	"time"

	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "metrics",
	}
}

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("expected non-nil collector")
	}
	if collector.registry != registry {
		t.Error("collector registry not set correctly")
	}
}

func TestNewCollectorDefaultsNamespaceAndSubsystem(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, prometheus.NewRegistry())

	if collector.config.Namespace != "sentinel" {
		t.Errorf("expected default namespace sentinel, got %q", collector.config.Namespace)
	}
	if collector.config.Subsystem != "core" {
		t.Errorf("expected default subsystem core, got %q", collector.config.Subsystem)
	}
}

func TestRecordFlowIncrementsCounterAndHistogram(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordFlow("GET", 200, "Live Proxy", 15*time.Millisecond)

	got := testutil.ToFloat64(collector.flow.flowsTotal.WithLabelValues("GET", "2xx", "Live Proxy"))
	if got != 1 {
		t.Errorf("expected flows_total = 1, got %v", got)
	}
}

func TestRecordFlowDisabledIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordFlow("GET", 200, "Live Proxy", time.Millisecond)

	got := testutil.ToFloat64(collector.flow.flowsTotal.WithLabelValues("GET", "2xx", "Live Proxy"))
	if got != 0 {
		t.Errorf("expected no metric recorded while disabled, got %v", got)
	}
}

func TestStatusClassBuckets(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "unknown"},
		{101, "1xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.code); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestInterceptionPendingGauge(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.IncInterceptionPending("request")
	collector.IncInterceptionPending("request")
	collector.DecInterceptionPending("request")

	got := testutil.ToFloat64(collector.interception.pending.WithLabelValues("request"))
	if got != 1 {
		t.Errorf("expected pending gauge = 1, got %v", got)
	}
}

func TestRecordInterceptionResolution(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordInterceptionResolution("response", 2*time.Second, "modify")

	got := testutil.ToFloat64(collector.interception.outcomes.WithLabelValues("response", "modify"))
	if got != 1 {
		t.Errorf("expected outcomes counter = 1, got %v", got)
	}
}

func TestRecordRuleEvaluationAndFinding(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordRuleEvaluation("SECRET-JWT", "match", 5*time.Microsecond)
	collector.RecordFinding("SECRET-JWT", "high")

	evalCount := testutil.ToFloat64(collector.scanner.evaluationsTotal.WithLabelValues("SECRET-JWT", "match"))
	if evalCount != 1 {
		t.Errorf("expected evaluations_total = 1, got %v", evalCount)
	}
	findingCount := testutil.ToFloat64(collector.scanner.findingsTotal.WithLabelValues("SECRET-JWT", "high"))
	if findingCount != 1 {
		t.Errorf("expected findings_total = 1, got %v", findingCount)
	}
}

func TestScannerMetricsCollapseHighCardinalityRuleIDs(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())
	collector.scanner.cardinality = NewCardinalityLimiter(2)

	collector.RecordFinding("rule-a", "low")
	collector.RecordFinding("rule-b", "low")
	collector.RecordFinding("rule-c", "low") // exceeds limit, collapses to "other"

	got := testutil.ToFloat64(collector.scanner.findingsTotal.WithLabelValues("other", "low"))
	if got != 1 {
		t.Errorf("expected rule-c to collapse into \"other\", got %v", got)
	}
}

func TestRecordDriftFindingAndSpecsLoaded(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordDriftFinding("undocumented_method")
	collector.SetSpecsLoaded(3)

	got := testutil.ToFloat64(collector.drift.findingsTotal.WithLabelValues("undocumented_method"))
	if got != 1 {
		t.Errorf("expected drift_findings_total = 1, got %v", got)
	}
	if loaded := testutil.ToFloat64(collector.drift.specsLoaded); loaded != 3 {
		t.Errorf("expected specs_loaded = 3, got %v", loaded)
	}
}

func TestCertCacheMetrics(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordCertCacheHit()
	collector.RecordCertCacheMiss()
	collector.SetCertCacheEntries(7)
	collector.RecordCertCacheEviction()

	if got := testutil.ToFloat64(collector.certCache.hitsTotal); got != 1 {
		t.Errorf("expected cert_cache_hits_total = 1, got %v", got)
	}
	if got := testutil.ToFloat64(collector.certCache.missesTotal); got != 1 {
		t.Errorf("expected cert_cache_misses_total = 1, got %v", got)
	}
	if got := testutil.ToFloat64(collector.certCache.entries); got != 7 {
		t.Errorf("expected cert_cache_entries = 7, got %v", got)
	}
}

func TestCardinalityLimiterAllowsSeenLabelsAfterLimit(t *testing.T) {
	cl := NewCardinalityLimiter(1)

	if !cl.Allow("a") {
		t.Fatal("expected first label to be allowed")
	}
	if cl.Allow("b") {
		t.Fatal("expected second distinct label to be rejected once at capacity")
	}
	if !cl.Allow("a") {
		t.Fatal("expected a previously-seen label to remain allowed")
	}
	if cl.Count() != 1 {
		t.Errorf("expected cardinality count = 1, got %d", cl.Count())
	}
}
