package domain

import "time"

type DocumentRecord struct {
	ID              string
	Facility        string
	Sector          string
	DocumentType    string
	TaxID           string
	ReceivedDate    *time.Time
	DueDate         *time.Time
	ManualRisk      RiskLevel
	ProgressPercent int
	Completed       bool
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsFullyProgressed reports whether every checklist task is done. For alerting
// this is treated the same as Completed.
func (d *DocumentRecord) IsFullyProgressed() bool {
	return d.ProgressPercent >= 100
}

// CivilDate truncates t to its calendar day in loc and returns it as UTC
// midnight, the canonical representation of a date without time of day.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
