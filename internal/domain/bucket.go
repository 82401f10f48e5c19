package domain

// Bucket groups urgency levels that share one notification cooldown.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketCritical Bucket = "critical"
	BucketElevated Bucket = "elevated"
)

func (b Bucket) String() string {
	return string(b)
}

func (b Bucket) IsValid() bool {
	return b == BucketOverdue || b == BucketCritical || b == BucketElevated
}

// AllBuckets returns the buckets from most to least urgent.
func AllBuckets() []Bucket {
	return []Bucket{BucketOverdue, BucketCritical, BucketElevated}
}
