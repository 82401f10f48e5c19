package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/infra/notifier"
	"github.com/KasumiMercury/compliance-watch/internal/observability/metrics"
	"github.com/KasumiMercury/compliance-watch/internal/observability/tracing"
	"github.com/KasumiMercury/compliance-watch/internal/service/alert"
	"github.com/KasumiMercury/compliance-watch/internal/service/cooldown"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

// Service runs evaluation ticks. Only one tick runs at a time; an overlapping
// call fails fast with domain.ErrEvaluationInProgress.
type Service struct {
	source       domain.RecordSource
	classifier   *status.Classifier
	throttle     *cooldown.Throttle
	composer     *alert.Composer
	notifier     notifier.Notifier
	statusMirror domain.StatusMirror
	recorder     domain.AlertResultRecorder
	alertMetrics *metrics.AlertMetrics

	mu sync.Mutex
}

// NewService wires a tick. statusMirror, recorder and alertMetrics may be nil.
func NewService(
	source domain.RecordSource,
	classifier *status.Classifier,
	throttle *cooldown.Throttle,
	composer *alert.Composer,
	sender notifier.Notifier,
	statusMirror domain.StatusMirror,
	recorder domain.AlertResultRecorder,
	alertMetrics *metrics.AlertMetrics,
) *Service {
	return &Service{
		source:       source,
		classifier:   classifier,
		throttle:     throttle,
		composer:     composer,
		notifier:     sender,
		statusMirror: statusMirror,
		recorder:     recorder,
		alertMetrics: alertMetrics,
	}
}

func (s *Service) Throttle() *cooldown.Throttle {
	return s.throttle
}

func (s *Service) Evaluate(ctx context.Context, now time.Time, runID string) (*Response, error) {
	if !s.mu.TryLock() {
		slog.WarnContext(ctx, "evaluation skipped, previous tick still running",
			slog.String("run_id", runID),
		)
		if s.alertMetrics != nil {
			s.alertMetrics.RecordTick(ctx, "overlap")
		}
		return nil, domain.ErrEvaluationInProgress
	}
	defer s.mu.Unlock()

	ctx, span := tracing.StartTickSpan(ctx, runID, now)
	defer span.End()

	tickStart := time.Now()
	defer func() {
		if s.alertMetrics != nil {
			s.alertMetrics.RecordTickDuration(ctx, time.Since(tickStart))
		}
	}()

	records, err := s.source.ListDocuments(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordSourceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrRecordSourceUnavailable, err)
		}
		slog.ErrorContext(ctx, "failed to load records, skipping alerts for this tick",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		tracing.RecordTickResult(span, 0, 0, 0, 0, err)
		if s.alertMetrics != nil {
			s.alertMetrics.RecordTick(ctx, "source_unavailable")
		}
		return nil, err
	}

	slog.DebugContext(ctx, "loaded records",
		slog.String("run_id", runID),
		slog.Int("record_count", len(records)),
	)

	resp := &Response{
		RunID:          runID,
		EvaluatedAt:    now,
		EvaluatedCount: len(records),
		StateCounts:    make(map[domain.UrgencyState]int),
		Buckets:        make([]BucketResult, 0, len(domain.AllBuckets())),
	}

	items := make([]alert.Item, 0, len(records))
	mirrorEntries := make([]domain.StatusMirrorEntry, 0, len(records))
	for _, record := range records {
		result := s.classifier.ClassifyRecord(&record, now)
		resp.StateCounts[result.State]++
		items = append(items, alert.Item{Record: record, Result: result})
		mirrorEntries = append(mirrorEntries, domain.StatusMirrorEntry{
			DocumentID:    record.ID,
			State:         result.State,
			DaysRemaining: result.DaysRemaining,
		})
	}

	if s.alertMetrics != nil {
		for state, count := range resp.StateCounts {
			s.alertMetrics.RecordClassified(ctx, state.String(), count)
		}
	}

	groups := alert.Group(items)
	for _, bucket := range domain.AllBuckets() {
		grouped := groups[bucket]
		if len(grouped) == 0 {
			continue
		}

		result := s.processBucket(ctx, bucket, grouped, now, runID)
		switch {
		case result.Fired:
			resp.FiredCount++
		case result.Throttled:
			resp.ThrottledCount++
		case result.Failed:
			resp.FailedCount++
		}
		resp.Buckets = append(resp.Buckets, result)
	}

	s.mirrorStatus(ctx, mirrorEntries, runID)
	s.recordResults(ctx, resp)

	tracing.RecordTickResult(span, resp.EvaluatedCount, resp.FiredCount, resp.ThrottledCount, resp.FailedCount, nil)
	if s.alertMetrics != nil {
		outcome := "success"
		if resp.FailedCount > 0 {
			outcome = "partial_failure"
		}
		s.alertMetrics.RecordTick(ctx, outcome)
	}

	slog.InfoContext(ctx, "evaluation completed",
		slog.String("run_id", runID),
		slog.Int("evaluated", resp.EvaluatedCount),
		slog.Int("fired", resp.FiredCount),
		slog.Int("throttled", resp.ThrottledCount),
		slog.Int("failed", resp.FailedCount),
	)

	return resp, nil
}

func (s *Service) processBucket(ctx context.Context, bucket domain.Bucket, items []alert.Item, now time.Time, runID string) BucketResult {
	ctx, span := tracing.StartBucketSpan(ctx, bucket.String(), len(items))
	defer span.End()

	result := BucketResult{
		Bucket:      bucket,
		Matched:     len(items),
		DocumentIDs: make([]string, 0, len(items)),
	}
	for _, item := range items {
		result.DocumentIDs = append(result.DocumentIDs, item.Record.ID)
	}

	shouldFire, err := s.throttle.ShouldFire(ctx, bucket, now)
	if err != nil {
		slog.WarnContext(ctx, "failed to read cooldown state, skipping bucket",
			slog.String("run_id", runID),
			slog.String("bucket", bucket.String()),
			slog.String("error", err.Error()),
		)
		result.Failed = true
		result.Error = err.Error()
		s.recordOutcome(ctx, bucket, "cooldown_error")
		tracing.RecordBucketResult(span, false, false, 0, err)
		return result
	}

	if !shouldFire {
		remaining, err := s.throttle.Remaining(ctx, bucket, now)
		if err != nil {
			slog.DebugContext(ctx, "failed to read remaining cooldown",
				slog.String("bucket", bucket.String()),
				slog.String("error", err.Error()),
			)
		}
		result.Throttled = true
		result.CooldownRemainingSeconds = int64(remaining.Seconds())

		slog.InfoContext(ctx, "bucket throttled",
			slog.String("run_id", runID),
			slog.String("bucket", bucket.String()),
			slog.Int("matched", len(items)),
			slog.Duration("cooldown_remaining", remaining),
		)
		s.recordOutcome(ctx, bucket, "throttled")
		tracing.RecordBucketResult(span, false, true, remaining, nil)
		return result
	}

	notification := s.composer.Compose(bucket, items)

	sendStart := time.Now()
	err = s.notifier.Send(ctx, notification)
	if s.alertMetrics != nil {
		s.alertMetrics.RecordSendDuration(ctx, bucket.String(), time.Since(sendStart))
	}
	if err != nil {
		// The cooldown stays untouched so the next tick retries.
		slog.ErrorContext(ctx, "failed to send notification",
			slog.String("run_id", runID),
			slog.String("bucket", bucket.String()),
			slog.String("error", err.Error()),
		)
		result.Failed = true
		result.Error = err.Error()
		s.recordOutcome(ctx, bucket, "failed")
		tracing.RecordBucketResult(span, false, false, 0, err)
		return result
	}

	result.Fired = true
	if err := s.throttle.RecordFired(ctx, bucket, now); err != nil {
		slog.WarnContext(ctx, "notification sent but cooldown not recorded",
			slog.String("run_id", runID),
			slog.String("bucket", bucket.String()),
			slog.String("error", err.Error()),
		)
		result.Error = err.Error()
	}

	slog.InfoContext(ctx, "notification sent",
		slog.String("run_id", runID),
		slog.String("bucket", bucket.String()),
		slog.String("priority", notification.Priority.String()),
		slog.Int("matched", len(items)),
	)
	s.recordOutcome(ctx, bucket, "fired")
	tracing.RecordBucketResult(span, true, false, 0, nil)

	return result
}

func (s *Service) recordOutcome(ctx context.Context, bucket domain.Bucket, outcome string) {
	if s.alertMetrics != nil {
		s.alertMetrics.RecordNotification(ctx, bucket.String(), outcome)
	}
}

func (s *Service) mirrorStatus(ctx context.Context, entries []domain.StatusMirrorEntry, runID string) {
	if s.statusMirror == nil || len(entries) == 0 {
		return
	}

	if err := s.statusMirror.WriteStatus(ctx, entries); err != nil {
		slog.WarnContext(ctx, "failed to mirror status",
			slog.String("run_id", runID),
			slog.Int("entry_count", len(entries)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordResults(ctx context.Context, resp *Response) {
	if s.recorder == nil {
		return
	}

	byBucket := make(map[domain.Bucket]BucketResult, len(resp.Buckets))
	for _, b := range resp.Buckets {
		byBucket[b.Bucket] = b
	}

	records := make([]domain.AlertResultRecord, 0, len(domain.AllBuckets()))
	for _, bucket := range domain.AllBuckets() {
		b := byBucket[bucket]
		records = append(records, domain.AlertResultRecord{
			RunID:          resp.RunID,
			EvaluatedAt:    resp.EvaluatedAt,
			Bucket:         bucket.String(),
			EvaluatedCount: resp.EvaluatedCount,
			MatchedCount:   b.Matched,
			Fired:          b.Fired,
			Throttled:      b.Throttled,
			Failed:         b.Failed,
		})
	}

	if err := s.recorder.RecordEvaluation(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record evaluation results",
			slog.String("run_id", resp.RunID),
			slog.String("error", err.Error()),
		)
	}
}
