package status

import (
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/ingest"
)

const (
	// CriticalMaxDays is the last day count still classified as critical.
	CriticalMaxDays = 7
	// ElevatedMaxDays is the last day count still classified as elevated.
	ElevatedMaxDays = 10
)

// DefaultTimezone is the facility calendar used to decide what "today" is.
const DefaultTimezone = "America/Sao_Paulo"

type Result struct {
	DaysRemaining int
	State         domain.UrgencyState
}

type Classifier struct {
	location *time.Location
	now      func() time.Time
}

type Option func(*Classifier)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

func NewClassifier(location *time.Location, opts ...Option) *Classifier {
	if location == nil {
		location = time.UTC
	}
	c := &Classifier{
		location: location,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Location() *time.Location {
	return c.location
}

// Today returns the current civil date in the facility timezone.
func (c *Classifier) Today() time.Time {
	return c.TodayAt(c.now())
}

// TodayAt returns the civil date of instant t in the facility timezone.
func (c *Classifier) TodayAt(t time.Time) time.Time {
	return domain.CivilDate(t, c.location)
}

func (c *Classifier) Classify(dueDate *time.Time, completed bool) Result {
	return ClassifyAt(dueDate, completed, c.Today())
}

// ClassifyRaw classifies a due date still in its textual form. Text that
// cannot be parsed degrades to INVALID_DATE.
func (c *Classifier) ClassifyRaw(rawDueDate string, completed bool) Result {
	return c.Classify(ingest.ParseOptionalDate(rawDueDate), completed)
}

func (c *Classifier) ClassifyRecord(record *domain.DocumentRecord, at time.Time) Result {
	return ClassifyAt(record.DueDate, record.Completed, c.TodayAt(at))
}

// ClassifyAt maps a due date and completion flag to an urgency state relative
// to the civil date today. Manual risk is deliberately not an input.
func ClassifyAt(dueDate *time.Time, completed bool, today time.Time) Result {
	if completed {
		return Result{DaysRemaining: domain.ResolvedDaysSentinel, State: domain.StateResolved}
	}
	if dueDate == nil || dueDate.IsZero() {
		return Result{DaysRemaining: 0, State: domain.StateInvalidDate}
	}

	days := DaysBetween(domain.CivilDate(today, nil), domain.CivilDate(*dueDate, nil))

	return Result{DaysRemaining: days, State: StateForDays(days)}
}

// StateForDays partitions a day count into urgency states. The boundaries are
// inclusive and downstream alerting depends on them exactly.
func StateForDays(days int) domain.UrgencyState {
	switch {
	case days < 0:
		return domain.StateOverdue
	case days == 0:
		return domain.StateDueToday
	case days <= CriticalMaxDays:
		return domain.StateCritical
	case days <= ElevatedMaxDays:
		return domain.StateElevated
	default:
		return domain.StateNormal
	}
}

// DaysBetween counts whole calendar days from one civil date to another.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
