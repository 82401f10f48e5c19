package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const alertTracerName = "github.com/KasumiMercury/compliance-watch/internal/service/evaluate"

func AlertTracer() trace.Tracer {
	return otel.Tracer(alertTracerName)
}

func StartTickSpan(ctx context.Context, runID string, now time.Time) (context.Context, trace.Span) {
	return AlertTracer().Start(ctx, "alert.tick",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("tick.evaluated_at", now.Format(time.RFC3339)),
		),
	)
}

func StartBucketSpan(ctx context.Context, bucket string, matched int) (context.Context, trace.Span) {
	return AlertTracer().Start(ctx, "alert.bucket",
		trace.WithAttributes(
			attribute.String("bucket", bucket),
			attribute.Int("bucket.matched_count", matched),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return AlertTracer().Start(ctx, "alert.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return AlertTracer().Start(ctx, "alert.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordTickResult(span trace.Span, evaluated, fired, throttled, failed int, err error) {
	span.SetAttributes(
		attribute.Int("tick.evaluated_count", evaluated),
		attribute.Int("tick.fired_count", fired),
		attribute.Int("tick.throttled_count", throttled),
		attribute.Int("tick.failed_count", failed),
	)
	RecordError(span, err)
}

func RecordBucketResult(span trace.Span, fired, throttled bool, remaining time.Duration, err error) {
	span.SetAttributes(
		attribute.Bool("bucket.fired", fired),
		attribute.Bool("bucket.throttled", throttled),
	)
	if throttled {
		span.SetAttributes(attribute.Int64("bucket.cooldown_remaining_seconds", int64(remaining.Seconds())))
	}
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
