package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidCooldownData = errors.New("invalid cooldown data")
)
