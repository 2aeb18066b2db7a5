package tracing

import (
	"context"
	"testing"

	"github.com/apisec/sentinel/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TestNew tests the creation of a new tracer
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "disabled tracing",
			config: &config.TracingConfig{
				Enabled:     false,
				ServiceName: "test-service",
			},
			wantErr: false,
		},
		{
			name: "enabled, never sample",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				SampleRatio: 0.0,
			},
			wantErr: false,
		},
		{
			name: "enabled, always sample",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				SampleRatio: 1.0,
			},
			wantErr: false,
		},
		{
			name: "enabled, ratio sample",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				SampleRatio: 0.25,
			},
			wantErr: false,
		},
		{
			name: "invalid sample ratio",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				SampleRatio: 1.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil {
				if tracer == nil {
					t.Error("New() returned nil tracer without error")
					return
				}

				if tracer.Enabled() != tt.config.Enabled {
					t.Errorf("tracer.Enabled() = %v, want %v", tracer.Enabled(), tt.config.Enabled)
				}

				if err := tracer.Shutdown(context.Background()); err != nil {
					t.Errorf("Shutdown() error = %v", err)
				}
			}
		})
	}
}

// TestTracer_Start tests span creation
func TestTracer_Start(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	ctx, span := tracer.Start(ctx, "test-operation")
	if span == nil {
		t.Error("Start() returned nil span")
	}
	span.End()

	ctx, span = tracer.Start(ctx, "test-operation-with-attrs",
		trace.WithAttributes(
			attribute.String("test.key", "test.value"),
		),
	)
	if span == nil {
		t.Error("Start() returned nil span")
	}
	span.End()

	ctx, parentSpan := tracer.Start(ctx, "parent-operation")
	ctx, childSpan := tracer.Start(ctx, "child-operation")
	childSpan.End()
	parentSpan.End()
}

// TestTracer_Shutdown tests graceful shutdown
func TestTracer_Shutdown(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		wantErr bool
	}{
		{
			name:    "shutdown disabled tracer",
			enabled: false,
			wantErr: false,
		},
		{
			name:    "shutdown enabled tracer",
			enabled: true,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.TracingConfig{
				Enabled:     tt.enabled,
				ServiceName: "test-service",
			}

			if tt.enabled {
				cfg.Endpoint = "localhost:4317"
				cfg.SampleRatio = 1.0
			}

			tracer, err := New(cfg)
			if err != nil {
				t.Fatalf("Failed to create tracer: %v", err)
			}

			ctx, span := tracer.Start(context.Background(), "test-operation")
			span.End()

			if err := tracer.Shutdown(ctx); (err != nil) != tt.wantErr {
				t.Errorf("Shutdown() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestSpanFromContext tests retrieving span from context
func TestSpanFromContext(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	span := SpanFromContext(ctx)
	if span == nil {
		t.Error("SpanFromContext() returned nil")
	}

	ctx, createdSpan := tracer.Start(ctx, "test-operation")
	retrievedSpan := SpanFromContext(ctx)
	if retrievedSpan == nil {
		t.Error("SpanFromContext() returned nil")
	}
	createdSpan.End()
}

// TestContextWithSpan tests adding span to context
func TestContextWithSpan(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()
	_, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	newCtx := ContextWithSpan(context.Background(), span)

	retrievedSpan := SpanFromContext(newCtx)
	if retrievedSpan == nil {
		t.Error("SpanFromContext() returned nil after ContextWithSpan()")
	}
}

// TestSpanContext tests retrieving span context
func TestSpanContext(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	sc := SpanContext(ctx)
	if sc.IsValid() {
		t.Error("SpanContext() returned valid context with no span")
	}

	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	_ = SpanContext(ctx)
}

// TestTraceID tests retrieving trace ID
func TestTraceID(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	traceID := TraceID(ctx)
	if traceID != "" {
		t.Errorf("TraceID() = %q, want empty string", traceID)
	}

	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	_ = TraceID(ctx)
}

// TestSpanID tests retrieving span ID
func TestSpanID(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	spanID := SpanID(ctx)
	if spanID != "" {
		t.Errorf("SpanID() = %q, want empty string", spanID)
	}

	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	_ = SpanID(ctx)
}

// TestIsSampled tests checking if trace is sampled
func TestIsSampled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx := context.Background()

	if IsSampled(ctx) {
		t.Error("IsSampled() = true, want false with no span")
	}

	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	_ = IsSampled(ctx)
}

// TestSetError tests setting error on span
func TestSetError(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	SetError(span, nil)

	testErr := context.DeadlineExceeded
	SetError(span, testErr)
}

// TestSetStatus tests setting span status
func TestSetStatus(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	SetStatus(span, nil)

	testErr := context.DeadlineExceeded
	SetStatus(span, testErr)
}

// TestTracer_SpanAttributes tests setting attributes on spans
func TestTracer_SpanAttributes(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	span.SetAttributes(
		attribute.String("string.key", "value"),
		attribute.Int("int.key", 42),
		attribute.Int64("int64.key", 1234567890),
		attribute.Float64("float64.key", 3.14),
		attribute.Bool("bool.key", true),
	)
}

// TestTracer_SpanEvents tests adding events to spans
func TestTracer_SpanEvents(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	span.AddEvent("test-event")

	span.AddEvent("test-event-with-attrs",
		trace.WithAttributes(
			attribute.String("event.key", "event.value"),
		),
	)
}

// TestTracer_RecordError tests recording errors
func TestTracer_RecordError(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	testErr := context.DeadlineExceeded
	span.RecordError(testErr)
}

// TestTracer_SetStatus tests setting span status with codes
func TestTracer_SetStatus(t *testing.T) {
	tracer, err := New(&config.TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	})
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-operation")
	defer span.End()

	span.SetStatus(codes.Ok, "success")
	span.SetStatus(codes.Error, "failed")
}
