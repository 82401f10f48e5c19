package alert

import (
	"sort"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

// Item is a record together with its classification for one evaluation pass.
type Item struct {
	Record domain.DocumentRecord
	Result status.Result
}

// AssignBucket returns the most urgent bucket the record qualifies for.
// Urgency state and manual risk are OR-combined; completion, inert states and
// a fully progressed checklist exclude the record regardless of manual risk.
func AssignBucket(record *domain.DocumentRecord, result status.Result) (domain.Bucket, bool) {
	if record.Completed || result.State.IsInert() || record.IsFullyProgressed() {
		return "", false
	}

	switch {
	case result.State == domain.StateOverdue:
		return domain.BucketOverdue, true
	case result.State == domain.StateDueToday,
		result.State == domain.StateCritical,
		record.ManualRisk == domain.RiskCritical:
		return domain.BucketCritical, true
	case result.State == domain.StateElevated,
		record.ManualRisk == domain.RiskHigh:
		return domain.BucketElevated, true
	default:
		return "", false
	}
}

// Group assigns every item to its bucket. Items in each bucket are ordered by
// days remaining, then by document ID.
func Group(items []Item) map[domain.Bucket][]Item {
	groups := make(map[domain.Bucket][]Item)
	for _, item := range items {
		bucket, ok := AssignBucket(&item.Record, item.Result)
		if !ok {
			continue
		}
		groups[bucket] = append(groups[bucket], item)
	}

	for _, grouped := range groups {
		SortItems(grouped)
	}
	return groups
}

func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Result.DaysRemaining != items[j].Result.DaysRemaining {
			return items[i].Result.DaysRemaining < items[j].Result.DaysRemaining
		}
		return items[i].Record.ID < items[j].Record.ID
	})
}
