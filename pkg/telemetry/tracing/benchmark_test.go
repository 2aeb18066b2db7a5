package tracing

import (
	"context"
	"net/http"
	"testing"

	"github.com/apisec/sentinel/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BenchmarkTracer_Start_Disabled benchmarks span creation with disabled tracing
// Target: <1µs (noop overhead)
func BenchmarkTracer_Start_Disabled(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "test-operation")
		span.End()
	}
}

// BenchmarkTracer_Start_Enabled benchmarks span creation with enabled tracing
// Target: <100µs per span
func BenchmarkTracer_Start_Enabled(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     true,
		SampleRatio: 1.0,
		Endpoint:    "localhost:4317",
		ServiceName: "test-service",
	})
	if err != nil {
		b.Skip("OTLP endpoint not available, skipping benchmark")
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "test-operation")
		span.End()
	}
}

// BenchmarkTracer_Start_WithAttributes benchmarks span creation with attributes
// Target: <100µs per span
func BenchmarkTracer_Start_WithAttributes(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "test-operation",
			trace.WithAttributes(
				attribute.String("sentinel.flow.method", "GET"),
				attribute.String("sentinel.flow.url", "https://api.example.com/v1/users"),
				attribute.Int("sentinel.flow.status_code", 200),
			),
		)
		span.End()
	}
}

// BenchmarkTracer_NestedSpans benchmarks nested span creation
// Target: <200µs for parent + child (100µs each)
func BenchmarkTracer_NestedSpans(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ctx, parentSpan := tracer.Start(ctx, "parent-operation")
		_, childSpan := tracer.Start(ctx, "child-operation")
		childSpan.End()
		parentSpan.End()
	}
}

// BenchmarkSetFlowAttributes benchmarks setting flow attributes
// Target: <10µs
func BenchmarkSetFlowAttributes(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		SetFlowAttributes(span, "GET", "https://api.example.com/v1/users", 200, "Live Proxy")
	}
}

// BenchmarkSetFindingAttributes benchmarks setting scanner finding attributes
// Target: <10µs
func BenchmarkSetFindingAttributes(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		SetFindingAttributes(span, "SECRET-JWT", "high")
	}
}

// BenchmarkSetDriftAttributes benchmarks setting drift finding attributes
// Target: <10µs
func BenchmarkSetDriftAttributes(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		SetDriftAttributes(span, "undocumented_method", "users-api.yaml")
	}
}

// BenchmarkAttributeBuilder benchmarks the fluent attribute builder
// Target: <20µs
func BenchmarkAttributeBuilder(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		builder := NewAttributeBuilder().
			WithFlow("GET", "https://api.example.com/v1/users", 200, "Live Proxy").
			WithFinding("SECRET-JWT", "high")
		builder.Apply(span)
	}
}

// BenchmarkExtract benchmarks trace context extraction
// Target: <10µs
func BenchmarkExtract(b *testing.B) {
	headers := http.Header{}
	headers.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Extract(ctx, headers)
	}
}

// BenchmarkInject benchmarks trace context injection
// Target: <10µs
func BenchmarkInject(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		headers := http.Header{}
		Inject(ctx, headers)
	}
}

// BenchmarkValidateTraceParent benchmarks traceparent validation
// Target: <1µs
func BenchmarkValidateTraceParent(b *testing.B) {
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = ValidateTraceParent(traceparent)
	}
}

// BenchmarkParseTraceParent benchmarks traceparent parsing
// Target: <1µs
func BenchmarkParseTraceParent(b *testing.B) {
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, _, _, _ = ParseTraceParent(traceparent)
	}
}

// BenchmarkIsSampledFromTraceParent benchmarks sampling flag check
// Target: <1µs
func BenchmarkIsSampledFromTraceParent(b *testing.B) {
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = IsSampledFromTraceParent(traceparent)
	}
}

// BenchmarkSpanFromContext benchmarks retrieving span from context
// Target: <1µs
func BenchmarkSpanFromContext(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = SpanFromContext(ctx)
	}
}

// BenchmarkTraceID benchmarks trace ID extraction
// Target: <1µs
func BenchmarkTraceID(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = TraceID(ctx)
	}
}

// BenchmarkSetError benchmarks setting error on span
// Target: <10µs
func BenchmarkSetError(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	testErr := context.DeadlineExceeded

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		SetError(span, testErr)
	}
}

// BenchmarkCreateSampler benchmarks sampler creation
// Target: <1µs
func BenchmarkCreateSampler(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = createSampler(0.1)
	}
}

// BenchmarkFullFlowTrace benchmarks a complete intercepted-flow trace scenario
// Target: <100µs total
func BenchmarkFullFlowTrace(b *testing.B) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		b.Fatalf("Failed to create tracer: %v", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	headers := http.Header{}
	headers.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ctx := Extract(context.Background(), headers)

		ctx, flowSpan := tracer.Start(ctx, "sentinel.proxy.flow")
		SetFlowAttributes(flowSpan, "GET", "https://api.example.com/v1/users", 200, "Live Proxy")

		ctx, interceptSpan := tracer.Start(ctx, "sentinel.proxy.intercept")
		SetInterceptionAttributes(interceptSpan, "request", "forwarded")
		interceptSpan.End()

		ctx, scanSpan := tracer.Start(ctx, "sentinel.scanner.evaluate")
		SetFindingAttributes(scanSpan, "SECRET-JWT", "high")
		scanSpan.End()

		flowSpan.End()

		responseHeaders := http.Header{}
		Inject(ctx, responseHeaders)
	}
}
