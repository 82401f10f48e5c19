package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewHandler(buf, HandlerConfig{
		Service:       ServiceInfo{Name: "compliance-watch", Version: "1.2.3"},
		Environment:   EnvDev,
		DefaultModule: Module("compliance-watch"),
		Level:         slog.LevelInfo,
	}))
}

func TestHandlerServiceAndModule(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.InfoContext(context.Background(), "hello", slog.String("bucket", "overdue"))

	entry := decode(t, &buf)
	service, ok := entry["service"].(map[string]any)
	if !ok {
		t.Fatalf("service group missing: %v", entry)
	}
	if service["name"] != "compliance-watch" || service["version"] != "1.2.3" {
		t.Errorf("service = %v", service)
	}
	if entry["env"] != "dev" {
		t.Errorf("env = %v, want dev", entry["env"])
	}
	if entry["module"] != "compliance-watch" {
		t.Errorf("module = %v, want default module", entry["module"])
	}
	if entry["bucket"] != "overdue" {
		t.Errorf("bucket = %v", entry["bucket"])
	}
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id present without a span")
	}
}

func TestHandlerContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithModule(ctx, Module("evaluate"))

	logger.InfoContext(ctx, "tick")

	entry := decode(t, &buf)
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["module"] != "evaluate" {
		t.Errorf("module = %v, want evaluate", entry["module"])
	}
	if entry["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", entry["trace_id"])
	}
	if entry["span_id"] != "00f067aa0ba902b7" {
		t.Errorf("span_id = %v", entry["span_id"])
	}
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %s", buf.String())
	}
}
