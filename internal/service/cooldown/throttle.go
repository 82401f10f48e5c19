package cooldown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// Throttle decides whether a bucket may send again. It guarantees at most one
// send per cooldown window as long as callers only record successful sends.
type Throttle struct {
	policy Policy
	repo   domain.CooldownRepository
	mu     sync.Mutex
}

func NewThrottle(policy Policy, repo domain.CooldownRepository) *Throttle {
	return &Throttle{
		policy: policy,
		repo:   repo,
	}
}

func (t *Throttle) Policy() Policy {
	return t.policy
}

// ShouldFire reports true when the bucket never fired or its cooldown has
// fully elapsed at now.
func (t *Throttle) ShouldFire(ctx context.Context, bucket domain.Bucket, now time.Time) (bool, error) {
	remaining, err := t.Remaining(ctx, bucket, now)
	if err != nil {
		return false, err
	}
	return remaining == 0, nil
}

// Remaining returns how long the bucket stays throttled, zero if it may fire.
func (t *Throttle) Remaining(ctx context.Context, bucket domain.Bucket, now time.Time) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	window, ok := t.policy.Cooldown(bucket)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	lastFired, found, err := t.repo.GetLastFired(ctx, bucket)
	if err != nil {
		return 0, fmt.Errorf("failed to read cooldown for %s: %w", bucket, err)
	}
	if !found {
		return 0, nil
	}

	elapsed := now.Sub(lastFired)
	if elapsed >= window {
		return 0, nil
	}
	return window - elapsed, nil
}

// RecordFired stores now as the last successful send of bucket.
func (t *Throttle) RecordFired(ctx context.Context, bucket domain.Bucket, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.policy.Cooldown(bucket); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	if err := t.repo.SaveLastFired(ctx, bucket, now); err != nil {
		return fmt.Errorf("failed to save cooldown for %s: %w", bucket, err)
	}
	return nil
}
