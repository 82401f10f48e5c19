package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=alert_result_recorder.go -destination=alert_result_recorder_mock.go -package=domain

type AlertResultRecord struct {
	RunID          string
	EvaluatedAt    time.Time
	Bucket         string
	EvaluatedCount int
	MatchedCount   int
	Fired          bool
	Throttled      bool
	Failed         bool
}

type AlertResultRecorder interface {
	RecordEvaluation(ctx context.Context, records []AlertResultRecord) error
	Flush(ctx context.Context) error
	Close() error
}
