// Package metrics provides Prometheus metrics collection for the proxy,
// scanner, drift detector, and certificate authority.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring
// intercepted traffic, the pausable interception pipeline, the passive
// vulnerability scanner, the OpenAPI drift detector, and the MITM leaf
// certificate cache.
//
// # Metrics Categories
//
//   - Flow Metrics: flow count, duration, and body sizes
//   - Interception Metrics: pending pauses, resolution latency, outcomes
//   - Scanner Metrics: rule evaluation count, duration, and findings
//   - Drift Metrics: drift findings and spec comparison duration
//   - Cert Cache Metrics: leaf certificate cache hits, misses, and size
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordFlow("POST", 201, asset.SourceLiveProxy, 42*time.Millisecond)
//	collector.RecordFinding("SECRET-JWT", "high")
//	collector.RecordDriftFinding("undocumented_method")
//
// # Cardinality Management
//
// Rule IDs come from both the built-in catalog and user-supplied custom
// rules, so the scanner metrics guard the rule_id label behind a
// CardinalityLimiter; labels beyond the limit collapse into "other" rather
// than growing the metric unbounded.
//
// # Prometheus Endpoint
//
// All metrics are exposed in standard Prometheus format via Collector's
// Handler(), typically mounted at the path named in config.MetricsConfig:
//
//	# HELP sentinel_core_flows_total Total number of intercepted flows
//	# TYPE sentinel_core_flows_total counter
//	sentinel_core_flows_total{method="POST",status_class="2xx",source="Live Proxy"} 1234
package metrics
