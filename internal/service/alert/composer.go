package alert

import (
	"fmt"
	"strings"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

// DefaultDetailLimit caps the itemised lines of one notification body.
const DefaultDetailLimit = 5

var bucketTitles = map[domain.Bucket]string{
	domain.BucketOverdue:  "Overdue documents",
	domain.BucketCritical: "Documents due within a week",
	domain.BucketElevated: "Documents needing attention",
}

var bucketPriorities = map[domain.Bucket]domain.Priority{
	domain.BucketOverdue:  domain.PriorityUrgent,
	domain.BucketCritical: domain.PriorityHigh,
	domain.BucketElevated: domain.PriorityDefault,
}

var bucketTags = map[domain.Bucket][]string{
	domain.BucketOverdue:  {"rotating_light", "overdue"},
	domain.BucketCritical: {"warning", "critical"},
	domain.BucketElevated: {"hourglass", "elevated"},
}

type Composer struct {
	detailLimit int
}

func NewComposer(detailLimit int) *Composer {
	if detailLimit <= 0 {
		detailLimit = DefaultDetailLimit
	}
	return &Composer{detailLimit: detailLimit}
}

func (c *Composer) DetailLimit() int {
	return c.detailLimit
}

// Compose builds the consolidated notification for one bucket. Items are
// expected to be sorted already.
func (c *Composer) Compose(bucket domain.Bucket, items []Item) domain.Notification {
	title := fmt.Sprintf("%s: %d %s", BucketTitle(bucket), len(items), pluralize(len(items), "document", "documents"))

	shown := items
	if len(shown) > c.detailLimit {
		shown = shown[:c.detailLimit]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, item := range shown {
		lines = append(lines, fmt.Sprintf("• %s — %s (%s)",
			item.Record.Facility,
			item.Record.DocumentType,
			DaysPhrase(item.Result),
		))
	}
	if hidden := len(items) - len(shown); hidden > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", hidden))
	}

	tags := append([]string(nil), bucketTags[bucket]...)

	return domain.Notification{
		Bucket:   bucket,
		Title:    title,
		Body:     strings.Join(lines, "\n"),
		Priority: PriorityFor(bucket),
		Tags:     tags,
	}
}

func BucketTitle(bucket domain.Bucket) string {
	if title, ok := bucketTitles[bucket]; ok {
		return title
	}
	return string(bucket)
}

func PriorityFor(bucket domain.Bucket) domain.Priority {
	if p, ok := bucketPriorities[bucket]; ok {
		return p
	}
	return domain.PriorityDefault
}

// DaysPhrase renders the distance to the deadline of a classified record.
func DaysPhrase(result status.Result) string {
	days := result.DaysRemaining
	switch {
	case result.State == domain.StateResolved:
		return "resolved"
	case result.State == domain.StateInvalidDate:
		return "no valid due date"
	case days < 0:
		return fmt.Sprintf("overdue by %d %s", -days, pluralize(-days, "day", "days"))
	case days == 0:
		return "due today"
	default:
		return fmt.Sprintf("due in %d %s", days, pluralize(days, "day", "days"))
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
