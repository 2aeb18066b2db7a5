package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// These functions provide a convenient way to set common attributes on
// spans across the proxy, scanner, drift detector, and asset store.
//
// Custom attribute keys use the "sentinel.*" namespace:
//   - sentinel.flow.*: intercepted flow attributes
//   - sentinel.finding.*: scanner finding attributes
//   - sentinel.drift.*: drift detector attributes
//   - sentinel.interception.*: pausable interception attributes

const (
	// Flow attributes
	AttrFlowMethod     = "sentinel.flow.method"
	AttrFlowURL        = "sentinel.flow.url"
	AttrFlowStatusCode = "sentinel.flow.status_code"
	AttrFlowSource     = "sentinel.flow.source"
	AttrRequestID      = "sentinel.request_id"

	// Finding attributes
	AttrFindingRuleID   = "sentinel.finding.rule_id"
	AttrFindingSeverity = "sentinel.finding.severity"

	// Drift attributes
	AttrDriftKind = "sentinel.drift.kind"
	AttrDriftSpec = "sentinel.drift.spec"

	// Interception attributes
	AttrInterceptionDirection = "sentinel.interception.direction"
	AttrInterceptionOutcome   = "sentinel.interception.outcome"

	// Cache attributes
	AttrCacheHit  = "sentinel.cache.hit"
	AttrCacheName = "sentinel.cache.name"

	// Error attributes
	AttrErrorType    = "sentinel.error.type"
	AttrErrorMessage = "error.message"
	AttrErrorStack   = "error.stack"

	// Performance attributes
	AttrDuration   = "sentinel.duration_ms"
	AttrQueueTime  = "sentinel.queue_time_ms"
	AttrRetryCount = "sentinel.retry_count"
)

// SetFlowAttributes sets attributes identifying an intercepted flow on a span.
func SetFlowAttributes(span trace.Span, method, url string, statusCode int, source string) {
	span.SetAttributes(
		attribute.String(AttrFlowMethod, method),
		attribute.String(AttrFlowURL, url),
		attribute.Int(AttrFlowStatusCode, statusCode),
		attribute.String(AttrFlowSource, source),
	)
}

// SetRequestIDAttribute sets the correlation id for a flow on a span.
func SetRequestIDAttribute(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}

// SetFindingAttributes sets attributes for a scanner finding on a span.
func SetFindingAttributes(span trace.Span, ruleID, severity string) {
	span.SetAttributes(
		attribute.String(AttrFindingRuleID, ruleID),
		attribute.String(AttrFindingSeverity, severity),
	)
}

// SetDriftAttributes sets attributes for a drift finding on a span.
func SetDriftAttributes(span trace.Span, kind, specName string) {
	attrs := []attribute.KeyValue{attribute.String(AttrDriftKind, kind)}
	if specName != "" {
		attrs = append(attrs, attribute.String(AttrDriftSpec, specName))
	}
	span.SetAttributes(attrs...)
}

// SetInterceptionAttributes sets attributes describing a paused message's
// resolution on a span.
func SetInterceptionAttributes(span trace.Span, direction, outcome string) {
	span.SetAttributes(
		attribute.String(AttrInterceptionDirection, direction),
		attribute.String(AttrInterceptionOutcome, outcome),
	)
}

// SetCacheAttributes sets cache-related attributes on a span.
func SetCacheAttributes(span trace.Span, hit bool, cacheName string) {
	span.SetAttributes(
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheName, cacheName),
	)
}

// SetErrorAttributes sets error-related attributes on a span, records the
// error, and sets the span status to Error.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetDurationAttribute sets the duration attribute on a span, in milliseconds.
func SetDurationAttribute(span trace.Span, durationMs int64) {
	span.SetAttributes(attribute.Int64(AttrDuration, durationMs))
}

// SetRetryAttribute sets the retry count attribute on a span.
func SetRetryAttribute(span trace.Span, retryCount int) {
	span.SetAttributes(attribute.Int(AttrRetryCount, retryCount))
}

// AddEvent adds a named event to the span with optional attributes.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordException records an exception event on the span.
func RecordException(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{attrs: make([]attribute.KeyValue, 0, 8)}
}

// WithFlow adds flow-identifying attributes.
func (ab *AttributeBuilder) WithFlow(method, url string, statusCode int, source string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrFlowMethod, method),
		attribute.String(AttrFlowURL, url),
		attribute.Int(AttrFlowStatusCode, statusCode),
		attribute.String(AttrFlowSource, source),
	)
	return ab
}

// WithFinding adds scanner finding attributes.
func (ab *AttributeBuilder) WithFinding(ruleID, severity string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrFindingRuleID, ruleID),
		attribute.String(AttrFindingSeverity, severity),
	)
	return ab
}

// WithDrift adds drift finding attributes.
func (ab *AttributeBuilder) WithDrift(kind, specName string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrDriftKind, kind))
	if specName != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrDriftSpec, specName))
	}
	return ab
}

// WithInterception adds pausable-interception attributes.
func (ab *AttributeBuilder) WithInterception(direction, outcome string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrInterceptionDirection, direction),
		attribute.String(AttrInterceptionOutcome, outcome),
	)
	return ab
}

// WithCache adds cache attributes.
func (ab *AttributeBuilder) WithCache(hit bool, cacheName string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheName, cacheName),
	)
	return ab
}

// WithCustom adds a custom attribute, inferring its OTel attribute type.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
