package alertrecorder

import (
	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// outcome collapses the per-bucket flags into one tag value.
func outcome(record domain.AlertResultRecord) string {
	switch {
	case record.Failed:
		return "failed"
	case record.Fired:
		return "fired"
	case record.Throttled:
		return "throttled"
	case record.MatchedCount == 0:
		return "idle"
	default:
		return "unknown"
	}
}

func runIDOrDefault(runID string) string {
	if runID == "" {
		return "default"
	}
	return runID
}
