package cooldown

import (
	"errors"
	"fmt"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

const (
	DefaultOverdueCooldown  = 30 * time.Minute
	DefaultCriticalCooldown = 60 * time.Minute
	DefaultElevatedCooldown = 180 * time.Minute
)

var (
	ErrInvalidPolicy = errors.New("invalid cooldown policy")
	ErrUnknownBucket = errors.New("unknown bucket")
)

// Policy holds the minimum time between two sends of the same bucket.
type Policy map[domain.Bucket]time.Duration

func DefaultPolicy() Policy {
	return Policy{
		domain.BucketOverdue:  DefaultOverdueCooldown,
		domain.BucketCritical: DefaultCriticalCooldown,
		domain.BucketElevated: DefaultElevatedCooldown,
	}
}

func NewPolicy(overdue, critical, elevated time.Duration) (Policy, error) {
	p := Policy{
		domain.BucketOverdue:  overdue,
		domain.BucketCritical: critical,
		domain.BucketElevated: elevated,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate requires a positive cooldown for every bucket and a cooldown that
// never shrinks as the bucket gets less urgent.
func (p Policy) Validate() error {
	var errs []error

	buckets := domain.AllBuckets()
	for _, b := range buckets {
		d, ok := p[b]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: missing", b))
			continue
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", b, d))
		}
	}

	for i := 1; i < len(buckets); i++ {
		more, less := buckets[i-1], buckets[i]
		if p[more] > p[less] {
			errs = append(errs, fmt.Errorf("%s cooldown %s exceeds %s cooldown %s", more, p[more], less, p[less]))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, errors.Join(errs...))
	}
	return nil
}

func (p Policy) Cooldown(bucket domain.Bucket) (time.Duration, bool) {
	d, ok := p[bucket]
	return d, ok
}

// Longest is the largest cooldown of the policy.
func (p Policy) Longest() time.Duration {
	var longest time.Duration
	for _, d := range p {
		longest = max(longest, d)
	}
	return longest
}
