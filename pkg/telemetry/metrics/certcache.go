package metrics

import (
	"github.com/apisec/sentinel/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CertCacheMetrics tracks performance of the MITM leaf-certificate cache
// (pkg/proxy/ca's per-host leaf cache).
//
// Metrics:
//   - sentinel_cert_cache_hits_total: leaf certificate reused from cache
//   - sentinel_cert_cache_misses_total: leaf certificate had to be signed
//   - sentinel_cert_cache_entries: current number of cached leaf certificates
//   - sentinel_cert_cache_evictions_total: entries evicted once LeafCacheMaxEntries was reached
type CertCacheMetrics struct {
	hitsTotal      prometheus.Counter
	missesTotal    prometheus.Counter
	entries        prometheus.Gauge
	evictionsTotal prometheus.Counter
}

// NewCertCacheMetrics creates and registers cert cache metrics with the
// provided registry.
func NewCertCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CertCacheMetrics {
	cm := &CertCacheMetrics{
		hitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cert_cache_hits_total",
				Help:      "Total number of leaf certificate cache hits",
			},
		),

		missesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cert_cache_misses_total",
				Help:      "Total number of leaf certificate cache misses",
			},
		),

		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cert_cache_entries",
				Help:      "Current number of cached leaf certificates",
			},
		),

		evictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cert_cache_evictions_total",
				Help:      "Total number of leaf certificates evicted to respect the cache's entry limit",
			},
		),
	}

	registry.MustRegister(cm.hitsTotal, cm.missesTotal, cm.entries, cm.evictionsTotal)
	return cm
}

// RecordHit records a leaf certificate served from cache.
func (cm *CertCacheMetrics) RecordHit() { cm.hitsTotal.Inc() }

// RecordMiss records a leaf certificate that had to be freshly signed.
func (cm *CertCacheMetrics) RecordMiss() { cm.missesTotal.Inc() }

// SetEntries updates the current cache size.
func (cm *CertCacheMetrics) SetEntries(n int) { cm.entries.Set(float64(n)) }

// RecordEviction records a leaf certificate evicted from the cache.
func (cm *CertCacheMetrics) RecordEviction() { cm.evictionsTotal.Inc() }
