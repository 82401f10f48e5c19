package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	alertMeterName = "alert.evaluator"
)

type AlertMetrics struct {
	ticks                metric.Int64Counter
	recordsClassified    metric.Int64Counter
	notificationsHandled metric.Int64Counter
	tickDuration         metric.Float64Histogram
	sendDuration         metric.Float64Histogram
}

func NewAlertMetrics() (*AlertMetrics, error) {
	meter := otel.Meter(alertMeterName)

	ticks, err := meter.Int64Counter(
		"alert_ticks_total",
		metric.WithDescription("Total number of evaluation ticks"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	recordsClassified, err := meter.Int64Counter(
		"alert_records_classified_total",
		metric.WithDescription("Total number of records classified, by urgency state"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	notificationsHandled, err := meter.Int64Counter(
		"alert_notifications_total",
		metric.WithDescription("Bucket notifications by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"alert_tick_duration_seconds",
		metric.WithDescription("Evaluation tick duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	sendDuration, err := meter.Float64Histogram(
		"alert_send_duration_seconds",
		metric.WithDescription("Time spent handing a notification to the push sender"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &AlertMetrics{
		ticks:                ticks,
		recordsClassified:    recordsClassified,
		notificationsHandled: notificationsHandled,
		tickDuration:         tickDuration,
		sendDuration:         sendDuration,
	}, nil
}

func (m *AlertMetrics) RecordTick(ctx context.Context, outcome string) {
	m.ticks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *AlertMetrics) RecordClassified(ctx context.Context, state string, count int) {
	if count <= 0 {
		return
	}
	m.recordsClassified.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("state", state),
	))
}

func (m *AlertMetrics) RecordNotification(ctx context.Context, bucket, outcome string) {
	m.notificationsHandled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("bucket", bucket),
		attribute.String("outcome", outcome),
	))
}

func (m *AlertMetrics) RecordTickDuration(ctx context.Context, duration time.Duration) {
	m.tickDuration.Record(ctx, duration.Seconds())
}

func (m *AlertMetrics) RecordSendDuration(ctx context.Context, bucket string, duration time.Duration) {
	m.sendDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("bucket", bucket),
	))
}
