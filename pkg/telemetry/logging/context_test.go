package logging

import (
	"bytes"
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}

	ctx = WithSpanID(ctx, "span-1")
	if got := GetSpanID(ctx); got != "span-1" {
		t.Errorf("GetSpanID() = %q, want %q", got, "span-1")
	}
}

func TestGetContextValuesMissingReturnEmpty(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() on empty context = %q, want empty", got)
	}
	if got := GetTraceID(ctx); got != "" {
		t.Errorf("GetTraceID() on empty context = %q, want empty", got)
	}
	if got := GetSpanID(ctx); got != "" {
		t.Errorf("GetSpanID() on empty context = %q, want empty", got)
	}
}

func TestExtractContextFieldsOrdersKnownKeys(t *testing.T) {
	ctx := WithSpanID(WithTraceID(WithRequestID(context.Background(), "r1"), "t1"), "s1")

	fields := extractContextFields(ctx)
	want := []any{"request_id", "r1", "trace_id", "t1", "span_id", "s1"}
	if len(fields) != len(want) {
		t.Fatalf("extractContextFields() = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("extractContextFields()[%d] = %v, want %v", i, fields[i], want[i])
		}
	}
}

func TestContextLoggerIncludesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx := WithRequestID(context.Background(), "flow-7")
	cl := NewContextLogger(logger, ctx)
	cl.Info("intercepted request")

	if !bytes.Contains(buf.Bytes(), []byte("flow-7")) {
		t.Fatalf("expected request id in output, got %q", buf.String())
	}
}
