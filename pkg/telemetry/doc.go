// Package telemetry provides observability for Sentinel.
//
// # Overview
//
// The telemetry package implements structured logging, Prometheus metrics,
// OpenTelemetry distributed tracing, and health check endpoints. It provides
// visibility into proxy, scanner, and drift-detector behavior while keeping
// overhead low enough to sit on the hot path of every intercepted request.
//
// # Components
//
//   - logging: Structured logging with PII redaction
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry distributed tracing
//   - health: Health check endpoints
//
// # Usage
//
//	// Initialize telemetry
//	tel := telemetry.New(&cfg.Telemetry, "v1.0.0", "abc123", "2025-11-20")
//
//	// Get logger
//	logger := tel.Logger()
//	logger.Info("asset captured", "url", asset.URL, "status", asset.StatusCode)
//
//	// Record metrics
//	tel.Metrics().RecordInterceptedRequest(host, decision, time.Since(start))
//
//	// Create span
//	ctx, span := tel.Tracer().Start(ctx, "scanner.scan_asset")
//	defer span.End()
//
// # PII Protection
//
// By default, sensitive fields are redacted from logs before they leave the
// process:
//
//   - API keys and bearer tokens: sk-abc123 → sk-***
//   - Emails: user@example.com → u***@example.com
//   - Authorization headers: replaced with a fixed placeholder
//
// Custom redaction patterns can be configured.
package telemetry
