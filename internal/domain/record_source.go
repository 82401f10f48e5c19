package domain

import "context"

//go:generate mockgen -source=record_source.go -destination=record_source_mock.go -package=domain

// RecordSource provides the current record set for one evaluation pass.
// An error means the set could not be read; an empty slice is a genuine
// "no documents" answer.
type RecordSource interface {
	ListDocuments(ctx context.Context) ([]DocumentRecord, error)
}

// StatusMirrorEntry is the display-only status written back next to a record.
type StatusMirrorEntry struct {
	DocumentID    string
	State         UrgencyState
	DaysRemaining int
}

type StatusMirror interface {
	WriteStatus(ctx context.Context, entries []StatusMirrorEntry) error
}
