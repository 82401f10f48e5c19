package domain

import "errors"

var (
	ErrDateParse               = errors.New("unparseable date")
	ErrNotificationSend        = errors.New("notification send failed")
	ErrRecordSourceUnavailable = errors.New("record source unavailable")
	ErrEvaluationInProgress    = errors.New("evaluation already in progress")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentExists          = errors.New("document already exists")
	ErrInvalidDocument         = errors.New("invalid document")
	ErrChecklistItemNotFound   = errors.New("checklist item not found")
)
