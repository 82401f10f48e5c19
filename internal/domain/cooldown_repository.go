package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=cooldown_repository.go -destination=cooldown_repository_mock.go -package=domain

// CooldownRepository stores the last successful send per bucket.
// The state is not required to survive restarts.
type CooldownRepository interface {
	GetLastFired(ctx context.Context, bucket Bucket) (time.Time, bool, error)
	SaveLastFired(ctx context.Context, bucket Bucket, firedAt time.Time) error
}
