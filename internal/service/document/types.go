package document

import (
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/ingest"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

type CreateInput struct {
	Facility     string
	Sector       string
	DocumentType string
	TaxID        string
	ReceivedDate *time.Time
	DueDate      *time.Time
	ManualRisk   domain.RiskLevel
	Completed    bool
	Notes        string
}

// UpdateInput is a partial update; nil fields are left unchanged. The
// document ID never changes, even when facility or document type do.
type UpdateInput struct {
	Facility     *string
	Sector       *string
	DocumentType *string
	TaxID        *string
	ReceivedDate *time.Time
	DueDate      *time.Time
	ManualRisk   *domain.RiskLevel
	Completed    *bool
	Notes        *string
}

type Filter struct {
	Sector           string
	Facility         string
	Risk             domain.RiskLevel
	State            domain.UrgencyState
	IncludeCompleted bool
}

// View is a document together with its status as of the time it was read.
type View struct {
	Document domain.DocumentRecord
	Status   status.Result
}

// ChecklistInput is one inspection point. Done records a conforming finding;
// an empty Severity defaults to NORMAL.
type ChecklistInput struct {
	Sector   string
	TaskText string
	Done     bool
	Severity domain.RiskLevel
	Notes    string
}

type ChecklistUpdate struct {
	Sector   *string
	TaskText *string
	Done     *bool
	Severity *domain.RiskLevel
	Notes    *string
}

type ImportSummary struct {
	Created  []string
	Skipped  []string
	Rejected []*ingest.RowError
}
