package metrics

import (
	"sync"
	"time"

	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics exposed by
// the proxy, scanner, drift detector, and certificate authority.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	flow         *FlowMetrics
	interception *InterceptionMetrics
	scanner      *ScannerMetrics
	drift        *DriftMetrics
	certCache    *CertCacheMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "sentinel"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "core"
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		flow:         NewFlowMetrics(cfg, registry),
		interception: NewInterceptionMetrics(cfg, registry),
		scanner:      NewScannerMetrics(cfg, registry),
		drift:        NewDriftMetrics(cfg, registry),
		certCache:    NewCertCacheMetrics(cfg, registry),
	}
}

// RecordFlow records a completed flow's method, status, source, and duration.
func (c *Collector) RecordFlow(method string, statusCode int, source string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.flow.RecordFlow(method, statusCode, source, duration)
}

// RecordBodySize records the size of a captured request or response body.
func (c *Collector) RecordBodySize(direction string, sizeBytes int) {
	if !c.config.Enabled {
		return
	}
	c.flow.RecordBodySize(direction, sizeBytes)
}

// IncInterceptionPending marks a message as newly paused.
func (c *Collector) IncInterceptionPending(direction string) {
	if !c.config.Enabled {
		return
	}
	c.interception.IncPending(direction)
}

// DecInterceptionPending marks a paused message as resolved.
func (c *Collector) DecInterceptionPending(direction string) {
	if !c.config.Enabled {
		return
	}
	c.interception.DecPending(direction)
}

// RecordInterceptionResolution records how long a message was paused and how
// it was resolved.
func (c *Collector) RecordInterceptionResolution(direction string, latency time.Duration, outcome string) {
	if !c.config.Enabled {
		return
	}
	c.interception.RecordResolution(direction, latency.Seconds(), outcome)
}

// RecordRuleEvaluation records one scanner rule evaluated against one flow.
func (c *Collector) RecordRuleEvaluation(ruleID, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.scanner.RecordEvaluation(ruleID, outcome, duration)
}

// RecordFinding records a scanner finding.
func (c *Collector) RecordFinding(ruleID, severity string) {
	if !c.config.Enabled {
		return
	}
	c.scanner.RecordFinding(ruleID, severity)
}

// RecordDriftFinding records a drift finding of the given kind.
func (c *Collector) RecordDriftFinding(kind string) {
	if !c.config.Enabled {
		return
	}
	c.drift.RecordFinding(kind)
}

// RecordDriftCheckDuration records how long one flow took to compare against
// all loaded specs.
func (c *Collector) RecordDriftCheckDuration(duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.drift.RecordCheckDuration(duration)
}

// SetSpecsLoaded updates the number of specs currently loaded for drift
// comparison.
func (c *Collector) SetSpecsLoaded(n int) {
	if !c.config.Enabled {
		return
	}
	c.drift.SetSpecsLoaded(n)
}

// RecordCertCacheHit records a leaf certificate served from cache.
func (c *Collector) RecordCertCacheHit() {
	if !c.config.Enabled {
		return
	}
	c.certCache.RecordHit()
}

// RecordCertCacheMiss records a leaf certificate that had to be freshly signed.
func (c *Collector) RecordCertCacheMiss() {
	if !c.config.Enabled {
		return
	}
	c.certCache.RecordMiss()
}

// SetCertCacheEntries updates the current leaf certificate cache size.
func (c *Collector) SetCertCacheEntries(n int) {
	if !c.config.Enabled {
		return
	}
	c.certCache.SetEntries(n)
}

// RecordCertCacheEviction records a leaf certificate evicted from the cache.
func (c *Collector) RecordCertCacheEviction() {
	if !c.config.Enabled {
		return
	}
	c.certCache.RecordEviction()
}

// Registry returns the Prometheus registry used by this collector. Used to
// build the /metrics HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting the
// number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if it already
// exists or if the cardinality limit hasn't been reached yet.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[label]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
