package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// dateLayouts are tried in order. Day-first layouts come before ISO ones
// because the deployment locale writes dates as DD/MM/YYYY.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate converts a spreadsheet or form date into a civil date (UTC
// midnight). Any time-of-day component is dropped.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty value: %w", domain.ErrDateParse)
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return domain.CivilDate(parsed, nil), nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", value, domain.ErrDateParse)
}

// ParseOptionalDate returns nil for blank or unparseable input.
func ParseOptionalDate(raw string) *time.Time {
	parsed, err := ParseDate(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// FormatDate renders a civil date the way facility staff write it.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}
