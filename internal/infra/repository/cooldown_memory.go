package repository

import (
	"context"
	"sync"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type memoryCooldownRepository struct {
	mu        sync.RWMutex
	lastFired map[domain.Bucket]time.Time
}

// NewMemoryCooldownRepository keeps cooldown state for the lifetime of the
// process only.
func NewMemoryCooldownRepository() domain.CooldownRepository {
	return &memoryCooldownRepository{
		lastFired: make(map[domain.Bucket]time.Time),
	}
}

func (r *memoryCooldownRepository) GetLastFired(_ context.Context, bucket domain.Bucket) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	firedAt, ok := r.lastFired[bucket]
	return firedAt, ok, nil
}

func (r *memoryCooldownRepository) SaveLastFired(_ context.Context, bucket domain.Bucket, firedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastFired[bucket] = firedAt
	return nil
}
