package evaluate

import (
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type BucketResult struct {
	Bucket                   domain.Bucket `json:"bucket"`
	Matched                  int           `json:"matched"`
	DocumentIDs              []string      `json:"document_ids"`
	Fired                    bool          `json:"fired"`
	Throttled                bool          `json:"throttled"`
	Failed                   bool          `json:"failed"`
	CooldownRemainingSeconds int64         `json:"cooldown_remaining_seconds,omitempty"`
	Error                    string        `json:"error,omitempty"`
}

type Response struct {
	RunID          string                      `json:"run_id"`
	EvaluatedAt    time.Time                   `json:"evaluated_at"`
	EvaluatedCount int                         `json:"evaluated_count"`
	StateCounts    map[domain.UrgencyState]int `json:"state_counts"`
	FiredCount     int                         `json:"fired_count"`
	ThrottledCount int                         `json:"throttled_count"`
	FailedCount    int                         `json:"failed_count"`
	Buckets        []BucketResult              `json:"buckets"`
}
