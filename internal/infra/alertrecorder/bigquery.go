//go:build gcloud

package alertrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt     time.Time `bigquery:"recorded_at"`
	EvaluatedAt    time.Time `bigquery:"evaluated_at"`
	RunID          string    `bigquery:"run_id"`
	Bucket         string    `bigquery:"bucket"`
	Outcome        string    `bigquery:"outcome"`
	EvaluatedCount int64     `bigquery:"evaluated_count"`
	MatchedCount   int64     `bigquery:"matched_count"`
	Fired          bool      `bigquery:"fired"`
	Throttled      bool      `bigquery:"throttled"`
	Failed         bool      `bigquery:"failed"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AlertResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "alert result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, alert result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, alert result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "alert result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordEvaluation(ctx context.Context, records []domain.AlertResultRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RecordedAt:     now,
			EvaluatedAt:    record.EvaluatedAt,
			RunID:          runIDOrDefault(record.RunID),
			Bucket:         record.Bucket,
			Outcome:        outcome(record),
			EvaluatedCount: int64(record.EvaluatedCount),
			MatchedCount:   int64(record.MatchedCount),
			Fired:          record.Fired,
			Throttled:      record.Throttled,
			Failed:         record.Failed,
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert alert results to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
