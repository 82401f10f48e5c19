package evaluate

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/infra/notifier"
	"github.com/KasumiMercury/compliance-watch/internal/infra/repository"
	"github.com/KasumiMercury/compliance-watch/internal/service/alert"
	"github.com/KasumiMercury/compliance-watch/internal/service/cooldown"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
	"github.com/KasumiMercury/compliance-watch/internal/testutil/ntfystub"
)

const stubTopic = "compliance-test"

func newNtfyService(t *testing.T, stub *ntfystub.Server, records []domain.DocumentRecord) *Service {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := domain.NewMockRecordSource(ctrl)
	source.EXPECT().ListDocuments(gomock.Any()).Return(records, nil).AnyTimes()

	client := notifier.NewNtfyClient(notifier.NtfyConfig{
		BaseURL:    stub.URL,
		Topic:      stubTopic,
		Token:      "tk_test",
		MaxRetries: 1,
		Timeout:    2 * time.Second,
	})

	return NewService(
		source,
		status.NewClassifier(time.UTC),
		cooldown.NewThrottle(cooldown.DefaultPolicy(), repository.NewMemoryCooldownRepository()),
		alert.NewComposer(alert.DefaultDetailLimit),
		client,
		nil,
		nil,
		nil,
	)
}

func TestEvaluate_PublishesToNtfy(t *testing.T) {
	stub := ntfystub.NewServer()
	defer stub.Close()

	records := []domain.DocumentRecord{
		{ID: "clinic--license", Facility: "Clinic", DocumentType: "License", DueDate: dueIn(-2), ManualRisk: domain.RiskNormal},
		{ID: "clinic--permit", Facility: "Clinic", DocumentType: "Permit", DueDate: dueIn(5), ManualRisk: domain.RiskNormal},
	}
	svc := newNtfyService(t, stub, records)
	ctx := context.Background()

	resp, err := svc.Evaluate(ctx, tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.FiredCount != 2 {
		t.Fatalf("FiredCount = %d, want 2", resp.FiredCount)
	}

	messages := stub.Messages(stubTopic)
	if len(messages) != 2 {
		t.Fatalf("published = %d, want 2", len(messages))
	}
	priorities := map[int]bool{}
	for _, m := range messages {
		priorities[m.Priority] = true
		if m.Auth != "Bearer tk_test" {
			t.Errorf("Authorization = %q", m.Auth)
		}
		if m.Title == "" || m.Message == "" {
			t.Errorf("empty title or body: %+v", m)
		}
	}
	if !priorities[domain.PriorityUrgent.Level()] || !priorities[domain.PriorityHigh.Level()] {
		t.Errorf("priorities = %v, want urgent and high", priorities)
	}

	resp, err = svc.Evaluate(ctx, tickTime.Add(time.Minute), "run-2")
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if resp.ThrottledCount != 2 {
		t.Errorf("ThrottledCount = %d, want 2", resp.ThrottledCount)
	}
	if n := len(stub.Messages(stubTopic)); n != 2 {
		t.Errorf("published after throttled tick = %d, want 2", n)
	}
}

func TestEvaluate_NtfyFailureRetriesNextTick(t *testing.T) {
	stub := ntfystub.NewServer()
	defer stub.Close()

	records := []domain.DocumentRecord{
		{ID: "clinic--license", Facility: "Clinic", DocumentType: "License", DueDate: dueIn(-2), ManualRisk: domain.RiskNormal},
	}
	svc := newNtfyService(t, stub, records)
	ctx := context.Background()

	stub.FailNext(1, http.StatusBadGateway)

	resp, err := svc.Evaluate(ctx, tickTime, "run-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := findBucket(t, resp, domain.BucketOverdue); !got.Failed {
		t.Fatalf("overdue bucket failed = false, want true")
	}
	if n := len(stub.Messages(stubTopic)); n != 0 {
		t.Fatalf("published = %d, want 0", n)
	}

	resp, err = svc.Evaluate(ctx, tickTime.Add(time.Minute), "run-2")
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if got := findBucket(t, resp, domain.BucketOverdue); !got.Fired {
		t.Errorf("overdue bucket fired = false, want true after failed send")
	}
	if n := len(stub.Messages(stubTopic)); n != 1 {
		t.Errorf("published = %d, want 1", n)
	}
}
