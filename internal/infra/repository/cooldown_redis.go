package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/observability/tracing"
)

const (
	cooldownKeyPrefix = "alert:cooldown:"

	// DefaultCooldownTTL outlives every sane cooldown window so that a key
	// never expires while its bucket is still throttled.
	DefaultCooldownTTL = 24 * time.Hour
)

type cooldownRecord struct {
	Bucket  string    `json:"bucket"`
	FiredAt time.Time `json:"fired_at"`
}

type redisCooldownRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCooldownRepository(client *redis.Client, ttl time.Duration) domain.CooldownRepository {
	if ttl <= 0 {
		ttl = DefaultCooldownTTL
	}
	return &redisCooldownRepository{
		client: client,
		ttl:    ttl,
	}
}

func cooldownKey(bucket domain.Bucket) string {
	return cooldownKeyPrefix + bucket.String()
}

func (r *redisCooldownRepository) GetLastFired(ctx context.Context, bucket domain.Bucket) (time.Time, bool, error) {
	key := cooldownKey(bucket)
	ctx, span := tracing.StartRedisOperationSpan(ctx, "get", key)
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			tracing.RecordError(span, nil)
			return time.Time{}, false, nil
		}
		tracing.RecordError(span, err)
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	var record cooldownRecord
	if err := json.Unmarshal(data, &record); err != nil {
		tracing.RecordError(span, err)
		return time.Time{}, false, ErrInvalidCooldownData
	}

	tracing.RecordError(span, nil)
	return record.FiredAt, true, nil
}

func (r *redisCooldownRepository) SaveLastFired(ctx context.Context, bucket domain.Bucket, firedAt time.Time) error {
	data, err := json.Marshal(cooldownRecord{
		Bucket:  bucket.String(),
		FiredAt: firedAt.UTC(),
	})
	if err != nil {
		return ErrInvalidCooldownData
	}

	key := cooldownKey(bucket)
	ctx, span := tracing.StartRedisOperationSpan(ctx, "set", key)
	defer span.End()

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	tracing.RecordError(span, nil)
	return nil
}
