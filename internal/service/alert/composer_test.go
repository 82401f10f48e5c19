package alert

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

func TestComposer_Compose(t *testing.T) {
	items := []Item{
		classify(domain.DocumentRecord{ID: "1", Facility: "Clínica Central", DocumentType: "Alvará Sanitário", DueDate: dueIn(0)}),
		classify(domain.DocumentRecord{ID: "2", Facility: "Clínica Norte", DocumentType: "AVCB", DueDate: dueIn(1)}),
	}

	n := NewComposer(DefaultDetailLimit).Compose(domain.BucketCritical, items)

	if n.Bucket != domain.BucketCritical {
		t.Errorf("Bucket = %s, want critical", n.Bucket)
	}
	if n.Title != "Documents due within a week: 2 documents" {
		t.Errorf("Title = %q", n.Title)
	}
	wantBody := "• Clínica Central — Alvará Sanitário (due today)\n• Clínica Norte — AVCB (due in 1 day)"
	if n.Body != wantBody {
		t.Errorf("Body = %q, want %q", n.Body, wantBody)
	}
	if n.Priority != domain.PriorityHigh {
		t.Errorf("Priority = %s, want high", n.Priority)
	}
	if len(n.Tags) == 0 {
		t.Error("expected tags")
	}
}

func TestComposer_DetailLimit(t *testing.T) {
	items := make([]Item, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, classify(domain.DocumentRecord{
			ID:           fmt.Sprintf("doc-%d", i),
			Facility:     fmt.Sprintf("Facility %d", i),
			DocumentType: "License",
			DueDate:      dueIn(-1 - i),
		}))
	}

	n := NewComposer(0).Compose(domain.BucketOverdue, items)

	lines := strings.Split(n.Body, "\n")
	if len(lines) != DefaultDetailLimit+1 {
		t.Fatalf("body has %d lines, want %d", len(lines), DefaultDetailLimit+1)
	}
	if lines[len(lines)-1] != "+3 more" {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], "+3 more")
	}
	if n.Title != "Overdue documents: 8 documents" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Priority != domain.PriorityUrgent {
		t.Errorf("Priority = %s, want urgent", n.Priority)
	}
}

func TestComposer_ExactlyAtLimitHasNoSuffix(t *testing.T) {
	items := make([]Item, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, classify(domain.DocumentRecord{ID: fmt.Sprint(i), Facility: "F", DocumentType: "D", DueDate: dueIn(9)}))
	}

	n := NewComposer(3).Compose(domain.BucketElevated, items)

	if strings.Contains(n.Body, "more") {
		t.Errorf("unexpected suffix in %q", n.Body)
	}
	if n.Priority != domain.PriorityDefault {
		t.Errorf("Priority = %s, want default", n.Priority)
	}
}

func TestComposer_SingularTitle(t *testing.T) {
	n := NewComposer(5).Compose(domain.BucketOverdue, []Item{
		classify(domain.DocumentRecord{ID: "1", Facility: "F", DocumentType: "D", DueDate: dueIn(-1)}),
	})
	if n.Title != "Overdue documents: 1 document" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Body != "• F — D (overdue by 1 day)" {
		t.Errorf("Body = %q", n.Body)
	}
}

func TestDaysPhrase(t *testing.T) {
	tests := []struct {
		result status.Result
		want   string
	}{
		{status.Result{DaysRemaining: -3, State: domain.StateOverdue}, "overdue by 3 days"},
		{status.Result{DaysRemaining: 0, State: domain.StateDueToday}, "due today"},
		{status.Result{DaysRemaining: 7, State: domain.StateCritical}, "due in 7 days"},
		{status.Result{DaysRemaining: 0, State: domain.StateInvalidDate}, "no valid due date"},
		{status.Result{DaysRemaining: domain.ResolvedDaysSentinel, State: domain.StateResolved}, "resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := DaysPhrase(tt.result); got != tt.want {
				t.Errorf("DaysPhrase() = %q, want %q", got, tt.want)
			}
		})
	}
}
