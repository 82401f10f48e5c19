//go:build !gcloud

package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// platformTraceAttrs marks whether the entry's span was sampled so a local
// collector can be queried for it. trace_id and span_id are added by Handle.
func platformTraceAttrs(ctx context.Context, _ string) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{slog.Bool("trace_sampled", sc.IsSampled())}
}
