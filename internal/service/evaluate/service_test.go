package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/infra/notifier"
	"github.com/KasumiMercury/compliance-watch/internal/infra/repository"
	"github.com/KasumiMercury/compliance-watch/internal/service/alert"
	"github.com/KasumiMercury/compliance-watch/internal/service/cooldown"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

var tickTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dueIn(days int) *time.Time {
	d := domain.CivilDate(tickTime, time.UTC).AddDate(0, 0, days)
	return &d
}

type fixture struct {
	source   *domain.MockRecordSource
	notifier *notifier.MockNotifier
	mirror   *domain.MockStatusMirror
	recorder *domain.MockAlertResultRecorder
	throttle *cooldown.Throttle
	service  *Service
}

func newFixture(t *testing.T, withOptional bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		source:   domain.NewMockRecordSource(ctrl),
		notifier: notifier.NewMockNotifier(ctrl),
		throttle: cooldown.NewThrottle(cooldown.DefaultPolicy(), repository.NewMemoryCooldownRepository()),
	}

	var mirror domain.StatusMirror
	var recorder domain.AlertResultRecorder
	if withOptional {
		f.mirror = domain.NewMockStatusMirror(ctrl)
		f.recorder = domain.NewMockAlertResultRecorder(ctrl)
		mirror = f.mirror
		recorder = f.recorder
	}

	f.service = NewService(
		f.source,
		status.NewClassifier(time.UTC),
		f.throttle,
		alert.NewComposer(alert.DefaultDetailLimit),
		f.notifier,
		mirror,
		recorder,
		nil,
	)
	return f
}

func findBucket(t *testing.T, resp *Response, bucket domain.Bucket) BucketResult {
	t.Helper()
	for _, b := range resp.Buckets {
		if b.Bucket == bucket {
			return b
		}
	}
	t.Fatalf("bucket %s not in response", bucket)
	return BucketResult{}
}

func TestEvaluate_CriticalRecordFiresThenThrottlesThenFiresAgain(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	records := []domain.DocumentRecord{
		{ID: "clinic--license", Facility: "Clinic", DocumentType: "License", DueDate: dueIn(5), ManualRisk: domain.RiskNormal},
	}
	f.source.EXPECT().ListDocuments(gomock.Any()).Return(records, nil).Times(3)
	f.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n domain.Notification) error {
			if n.Bucket != domain.BucketCritical {
				t.Errorf("notification bucket = %s, want critical", n.Bucket)
			}
			if n.Priority != domain.PriorityHigh {
				t.Errorf("notification priority = %s, want high", n.Priority)
			}
			return nil
		}).
		Times(2)

	first, err := f.service.Evaluate(ctx, tickTime, "run-1")
	if err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	if first.StateCounts[domain.StateCritical] != 1 {
		t.Errorf("critical count = %d, want 1", first.StateCounts[domain.StateCritical])
	}
	if got := findBucket(t, first, domain.BucketCritical); !got.Fired {
		t.Errorf("first tick: fired = false, want true")
	}

	second, err := f.service.Evaluate(ctx, tickTime.Add(time.Minute), "run-2")
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	got := findBucket(t, second, domain.BucketCritical)
	if got.Fired || !got.Throttled {
		t.Errorf("second tick: fired=%v throttled=%v, want throttled", got.Fired, got.Throttled)
	}
	if want := int64((cooldown.DefaultCriticalCooldown - time.Minute).Seconds()); got.CooldownRemainingSeconds != want {
		t.Errorf("cooldown remaining = %d, want %d", got.CooldownRemainingSeconds, want)
	}

	third, err := f.service.Evaluate(ctx, tickTime.Add(cooldown.DefaultCriticalCooldown), "run-3")
	if err != nil {
		t.Fatalf("third Evaluate: %v", err)
	}
	if got := findBucket(t, third, domain.BucketCritical); !got.Fired {
		t.Errorf("third tick: fired = false, want true after cooldown")
	}
}

func TestEvaluate_SendFailureDoesNotStartCooldown(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	records := []domain.DocumentRecord{
		{ID: "a", Facility: "A", DocumentType: "Permit", DueDate: dueIn(-2)},
	}
	f.source.EXPECT().ListDocuments(gomock.Any()).Return(records, nil).Times(2)

	gomock.InOrder(
		f.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
			Return(errors.Join(domain.ErrNotificationSend, errors.New("status 502"))),
		f.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	first, err := f.service.Evaluate(ctx, tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got := findBucket(t, first, domain.BucketOverdue)
	if !got.Failed || got.Fired {
		t.Errorf("first tick: failed=%v fired=%v, want failed", got.Failed, got.Fired)
	}
	if first.FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", first.FailedCount)
	}

	ok, err := f.throttle.ShouldFire(ctx, domain.BucketOverdue, tickTime.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("ShouldFire after failed send = %v, %v; want true", ok, err)
	}

	second, err := f.service.Evaluate(ctx, tickTime.Add(time.Minute), "run-2")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := findBucket(t, second, domain.BucketOverdue); !got.Fired {
		t.Errorf("retry tick: fired = false, want true")
	}
}

func TestEvaluate_SourceUnavailable(t *testing.T) {
	f := newFixture(t, false)

	f.source.EXPECT().ListDocuments(gomock.Any()).Return(nil, errors.New("sheet quota exceeded"))

	resp, err := f.service.Evaluate(context.Background(), tickTime, "run-1")
	if !errors.Is(err, domain.ErrRecordSourceUnavailable) {
		t.Fatalf("Evaluate error = %v, want ErrRecordSourceUnavailable", err)
	}
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}
}

func TestEvaluate_SourceUnavailableWrappedOnce(t *testing.T) {
	f := newFixture(t, false)

	sourceErr := fmt.Errorf("%w: failed to read range Documents: backend error", domain.ErrRecordSourceUnavailable)
	f.source.EXPECT().ListDocuments(gomock.Any()).Return(nil, sourceErr)

	_, err := f.service.Evaluate(context.Background(), tickTime, "run-1")
	if !errors.Is(err, domain.ErrRecordSourceUnavailable) {
		t.Fatalf("Evaluate error = %v, want ErrRecordSourceUnavailable", err)
	}
	if n := strings.Count(err.Error(), domain.ErrRecordSourceUnavailable.Error()); n != 1 {
		t.Errorf("error %q mentions the sentinel %d times, want 1", err, n)
	}
}

func TestEvaluate_EmptySourceIsAllClear(t *testing.T) {
	f := newFixture(t, false)

	f.source.EXPECT().ListDocuments(gomock.Any()).Return([]domain.DocumentRecord{}, nil)

	resp, err := f.service.Evaluate(context.Background(), tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.EvaluatedCount != 0 || len(resp.Buckets) != 0 {
		t.Errorf("expected empty response, got %+v", resp)
	}
}

func TestEvaluate_SuppressedRecordsNeverAlert(t *testing.T) {
	f := newFixture(t, false)

	records := []domain.DocumentRecord{
		{ID: "resolved", DueDate: dueIn(-1), Completed: true, ManualRisk: domain.RiskCritical},
		{ID: "progressed", DueDate: dueIn(0), ProgressPercent: 100},
		{ID: "invalid", DueDate: nil, ManualRisk: domain.RiskCritical},
		{ID: "normal", DueDate: dueIn(45)},
	}
	f.source.EXPECT().ListDocuments(gomock.Any()).Return(records, nil)

	resp, err := f.service.Evaluate(context.Background(), tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(resp.Buckets) != 0 {
		t.Errorf("expected no buckets, got %+v", resp.Buckets)
	}

	wantStates := map[domain.UrgencyState]int{
		domain.StateResolved:    1,
		domain.StateDueToday:    1,
		domain.StateInvalidDate: 1,
		domain.StateNormal:      1,
	}
	for state, want := range wantStates {
		if got := resp.StateCounts[state]; got != want {
			t.Errorf("StateCounts[%s] = %d, want %d", state, got, want)
		}
	}
}

func TestEvaluate_MultipleBucketsMirrorAndRecorder(t *testing.T) {
	f := newFixture(t, true)

	records := []domain.DocumentRecord{
		{ID: "o", Facility: "F1", DocumentType: "D1", DueDate: dueIn(-3)},
		{ID: "c", Facility: "F2", DocumentType: "D2", DueDate: dueIn(80), ManualRisk: domain.RiskCritical},
		{ID: "e", Facility: "F3", DocumentType: "D3", DueDate: dueIn(9)},
	}
	f.source.EXPECT().ListDocuments(gomock.Any()).Return(records, nil)

	sent := make(map[domain.Bucket]domain.Notification)
	f.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n domain.Notification) error {
			sent[n.Bucket] = n
			return nil
		}).Times(3)

	f.mirror.EXPECT().WriteStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []domain.StatusMirrorEntry) error {
			if len(entries) != 3 {
				t.Errorf("mirror got %d entries, want 3", len(entries))
			}
			return errors.New("mirror failure is logged only")
		})

	f.recorder.EXPECT().RecordEvaluation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, recs []domain.AlertResultRecord) error {
			if len(recs) != len(domain.AllBuckets()) {
				t.Errorf("recorded %d rows, want %d", len(recs), len(domain.AllBuckets()))
			}
			for _, r := range recs {
				if r.RunID != "run-x" || !r.Fired || r.MatchedCount != 1 {
					t.Errorf("unexpected record %+v", r)
				}
			}
			return nil
		})

	resp, err := f.service.Evaluate(context.Background(), tickTime, "run-x")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.FiredCount != 3 {
		t.Errorf("FiredCount = %d, want 3", resp.FiredCount)
	}
	if len(sent) != 3 {
		t.Fatalf("sent %d notifications, want 3", len(sent))
	}
	if sent[domain.BucketOverdue].Priority != domain.PriorityUrgent {
		t.Errorf("overdue priority = %s", sent[domain.BucketOverdue].Priority)
	}
	if sent[domain.BucketElevated].Priority != domain.PriorityDefault {
		t.Errorf("elevated priority = %s", sent[domain.BucketElevated].Priority)
	}

	wantOrder := []domain.Bucket{domain.BucketOverdue, domain.BucketCritical, domain.BucketElevated}
	for i, b := range resp.Buckets {
		if b.Bucket != wantOrder[i] {
			t.Errorf("Buckets[%d] = %s, want %s", i, b.Bucket, wantOrder[i])
		}
	}
}

func TestEvaluate_CooldownReadErrorSkipsBucket(t *testing.T) {
	ctrl := gomock.NewController(t)

	source := domain.NewMockRecordSource(ctrl)
	sender := notifier.NewMockNotifier(ctrl)
	repo := domain.NewMockCooldownRepository(ctrl)

	source.EXPECT().ListDocuments(gomock.Any()).Return([]domain.DocumentRecord{
		{ID: "a", DueDate: dueIn(-1)},
	}, nil)
	repo.EXPECT().GetLastFired(gomock.Any(), domain.BucketOverdue).
		Return(time.Time{}, false, errors.New("connection refused"))
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	svc := NewService(
		source,
		status.NewClassifier(time.UTC),
		cooldown.NewThrottle(cooldown.DefaultPolicy(), repo),
		alert.NewComposer(0),
		sender,
		nil, nil, nil,
	)

	resp, err := svc.Evaluate(context.Background(), tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got := findBucket(t, resp, domain.BucketOverdue)
	if !got.Failed || got.Error == "" {
		t.Errorf("expected failed bucket with error, got %+v", got)
	}
}

func TestEvaluate_OverlappingTickIsRejected(t *testing.T) {
	f := newFixture(t, false)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.source.EXPECT().ListDocuments(gomock.Any()).
		DoAndReturn(func(context.Context) ([]domain.DocumentRecord, error) {
			close(entered)
			<-release
			return nil, nil
		})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := f.service.Evaluate(context.Background(), tickTime, "slow"); err != nil {
			t.Errorf("slow tick: %v", err)
		}
	}()

	<-entered
	_, err := f.service.Evaluate(context.Background(), tickTime, "overlap")
	if !errors.Is(err, domain.ErrEvaluationInProgress) {
		t.Errorf("overlapping Evaluate error = %v, want ErrEvaluationInProgress", err)
	}

	close(release)
	wg.Wait()
}
