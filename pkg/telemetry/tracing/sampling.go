package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling is ratio-based: config.TracingConfig.SampleRatio is a single
// float between 0 (never) and 1 (always), inclusive. The sampling decision
// is made once at trace creation (the flow's entry span) and propagated to
// every child span, so either the whole flow is traced or none of it.
//
// All samplers are wrapped in ParentBased() so an already-sampled parent
// (e.g. an upstream service that propagated a sampled trace context into the
// intercepted request) is respected instead of re-rolled.

// createSampler creates a ParentBased TraceIDRatioBased sampler for ratio.
func createSampler(ratio float64) (sdktrace.Sampler, error) {
	if ratio < 0.0 || ratio > 1.0 {
		return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
}

// ValidateSampleRatio validates a configured sample ratio.
func ValidateSampleRatio(ratio float64) error {
	if ratio < 0.0 || ratio > 1.0 {
		return fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
	}
	return nil
}
