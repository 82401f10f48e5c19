package status

import (
	"testing"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestClassifyAt_Boundaries(t *testing.T) {
	today := date(2025, 6, 15)

	tests := []struct {
		name      string
		days      int
		wantState domain.UrgencyState
	}{
		{name: "-30 days is Overdue", days: -30, wantState: domain.StateOverdue},
		{name: "-1 day is Overdue", days: -1, wantState: domain.StateOverdue},
		{name: "0 days is DueToday", days: 0, wantState: domain.StateDueToday},
		{name: "1 day is Critical", days: 1, wantState: domain.StateCritical},
		{name: "7 days is Critical", days: 7, wantState: domain.StateCritical},
		{name: "8 days is Elevated", days: 8, wantState: domain.StateElevated},
		{name: "10 days is Elevated", days: 10, wantState: domain.StateElevated},
		{name: "11 days is Normal", days: 11, wantState: domain.StateNormal},
		{name: "365 days is Normal", days: 365, wantState: domain.StateNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := today.AddDate(0, 0, tt.days)

			got := ClassifyAt(&due, false, today)

			if got.State != tt.wantState {
				t.Errorf("State = %v, want %v", got.State, tt.wantState)
			}
			if got.DaysRemaining != tt.days {
				t.Errorf("DaysRemaining = %d, want %d", got.DaysRemaining, tt.days)
			}
		})
	}
}

func TestClassifyAt_CompletedIsResolvedRegardlessOfDate(t *testing.T) {
	today := date(2025, 6, 15)

	for _, due := range []*time.Time{nil, ptr(today.AddDate(0, 0, -400)), ptr(today), ptr(today.AddDate(0, 0, 3))} {
		got := ClassifyAt(due, true, today)
		if got.State != domain.StateResolved {
			t.Errorf("ClassifyAt(%v, true) state = %v, want RESOLVED", due, got.State)
		}
		if got.DaysRemaining != domain.ResolvedDaysSentinel {
			t.Errorf("ClassifyAt(%v, true) days = %d, want sentinel", due, got.DaysRemaining)
		}
	}
}

func TestClassifyAt_MissingDateIsInvalid(t *testing.T) {
	today := date(2025, 6, 15)

	for _, due := range []*time.Time{nil, ptr(time.Time{})} {
		got := ClassifyAt(due, false, today)
		if got.State != domain.StateInvalidDate || got.DaysRemaining != 0 {
			t.Errorf("ClassifyAt(%v, false) = %+v, want (0, INVALID_DATE)", due, got)
		}
	}
}

func TestClassifyAt_MonotonicSeverity(t *testing.T) {
	today := date(2025, 1, 1)

	previous := -1
	for days := 60; days >= -60; days-- {
		due := today.AddDate(0, 0, days)
		severity := ClassifyAt(&due, false, today).State.Severity()
		if severity < previous {
			t.Fatalf("severity decreased at days=%d: %d < %d", days, severity, previous)
		}
		previous = severity
	}
}

func TestClassifyAt_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	due := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)

	got := ClassifyAt(&due, false, today)
	if got.DaysRemaining != 1 || got.State != domain.StateCritical {
		t.Errorf("got %+v, want (1, CRITICAL)", got)
	}
}

func TestClassifier_UsesFacilityTimezone(t *testing.T) {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 01:00 UTC on the 2nd is still the evening of the 1st in São Paulo.
	now := time.Date(2025, 7, 2, 1, 0, 0, 0, time.UTC)
	classifier := NewClassifier(loc, WithClock(func() time.Time { return now }))

	if got := classifier.Today(); !got.Equal(date(2025, 7, 1)) {
		t.Fatalf("Today() = %v, want 2025-07-01", got)
	}

	due := date(2025, 7, 1)
	got := classifier.Classify(&due, false)
	if got.State != domain.StateDueToday {
		t.Errorf("State = %v, want DUE_TODAY", got.State)
	}
}

func TestClassifier_ClassifyRaw(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	classifier := NewClassifier(time.UTC, WithClock(func() time.Time { return now }))

	tests := []struct {
		raw       string
		completed bool
		want      Result
	}{
		{raw: "06/05/2025", want: Result{DaysRemaining: 5, State: domain.StateCritical}},
		{raw: "2025-05-01", want: Result{DaysRemaining: 0, State: domain.StateDueToday}},
		{raw: "30/04/2025", want: Result{DaysRemaining: -1, State: domain.StateOverdue}},
		{raw: "tomorrow", want: Result{DaysRemaining: 0, State: domain.StateInvalidDate}},
		{raw: "", want: Result{DaysRemaining: 0, State: domain.StateInvalidDate}},
		{raw: "tomorrow", completed: true, want: Result{DaysRemaining: domain.ResolvedDaysSentinel, State: domain.StateResolved}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := classifier.ClassifyRaw(tt.raw, tt.completed); got != tt.want {
				t.Errorf("ClassifyRaw(%q, %v) = %+v, want %+v", tt.raw, tt.completed, got, tt.want)
			}
		})
	}
}

func TestClassifier_ClassifyRecord(t *testing.T) {
	classifier := NewClassifier(time.UTC)
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	due := date(2025, 5, 6)

	got := classifier.ClassifyRecord(&domain.DocumentRecord{DueDate: &due, ManualRisk: domain.RiskCritical}, at)

	if got.State != domain.StateCritical || got.DaysRemaining != 5 {
		t.Errorf("got %+v, want (5, CRITICAL)", got)
	}
}
