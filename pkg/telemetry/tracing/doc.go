// Package tracing provides OpenTelemetry distributed tracing for the
// traffic interception and security analysis core.
//
// # Overview
//
// The tracing package implements W3C Trace Context propagation, span
// creation, and trace export over OTLP/gRPC. It provides visibility into a
// flow's lifecycle across the MITM proxy, the pausable interception
// pipeline, the vulnerability scanner, and the drift detector, with minimal
// overhead (<100µs per span).
//
// # Distributed Tracing
//
// Distributed tracing tracks a flow as it moves through the proxy,
// creating a hierarchy of spans that represent each stage. Each span
// records:
//   - Operation name and duration
//   - Attributes (key-value pairs)
//   - Events (timestamped logs within the span)
//   - Trace context (trace ID, span ID, sampling decision)
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context (https://www.w3.org/TR/trace-context/)
// for propagating trace context across HTTP boundaries:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// # Sampling
//
// Sampling is ratio-based: config.TracingConfig.SampleRatio is a single
// value between 0 (trace nothing) and 1 (trace everything), wrapped in a
// ParentBased sampler so an upstream sampling decision already present in
// the trace context is respected.
//
// # Usage
//
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "sentinel",
//	    SampleRatio: 0.1,
//	}
//	tracer, err := tracing.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "sentinel.proxy.flow")
//	defer span.End()
//
//	tracing.SetFlowAttributes(span, "GET", url, 200, "Live Proxy")
//
//	span.AddEvent("finding_recorded", trace.WithAttributes(
//	    attribute.String("rule_id", "secret-jwt"),
//	    attribute.String("severity", "high"),
//	))
//
// # Span Hierarchy
//
// Spans form a hierarchy representing a flow's path through the core:
//
//	sentinel.proxy.flow (120ms)
//	├── sentinel.proxy.intercept.request (paused 8.2s)
//	├── sentinel.proxy.upstream (95ms)
//	├── sentinel.proxy.intercept.response (paused 1.1s)
//	├── sentinel.scanner.evaluate (3ms)
//	└── sentinel.store.persist (4ms)
//
// # HTTP Integration
//
// Extract trace context from incoming HTTP requests:
//
//	ctx := propagation.Extract(r.Context(), r.Header)
//	ctx, span := tracer.Start(ctx, "handle_request")
//	defer span.End()
//
// Inject trace context into outgoing HTTP requests:
//
//	req, _ := http.NewRequestWithContext(ctx, "POST", url, body)
//	propagation.Inject(ctx, req.Header)
//
// # Performance
//
// The tracing package is designed for minimal overhead:
//   - Span creation: <100µs per span
//   - Context propagation: <10µs
//   - Sampling decision: <1µs
//   - When disabled: <1µs (noop span)
//
// # Trace Exporter
//
// Spans are exported over OTLP/gRPC to cfg.Endpoint. The connection is
// plaintext; operators terminating TLS to their collector do so with a
// sidecar or service mesh rather than tracing configuration:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    service_name: sentinel
//	    sample_ratio: 0.1
//
// # Attribute Helpers
//
// Common attributes can be set using helper functions:
//
//	// Flow attributes
//	tracing.SetFlowAttributes(span, "GET", url, 200, "Live Proxy")
//
//	// Scanner finding attributes
//	tracing.SetFindingAttributes(span, "secret-jwt", "high")
//
//	// Drift finding attributes
//	tracing.SetDriftAttributes(span, "undocumented_method", "users-api.yaml")
//
//	// Error attributes
//	tracing.SetErrorAttributes(span, err, "upstream_timeout")
package tracing
