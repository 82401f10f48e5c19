package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/service/cooldown"
)

const (
	cooldownBackendEnv         = "COOLDOWN_BACKEND"
	cooldownOverdueMinutesEnv  = "COOLDOWN_OVERDUE_MINUTES"
	cooldownCriticalMinutesEnv = "COOLDOWN_CRITICAL_MINUTES"
	cooldownElevatedMinutesEnv = "COOLDOWN_ELEVATED_MINUTES"
	cooldownTTLHoursEnv        = "COOLDOWN_TTL_HOURS"

	defaultCooldownTTLHours = 24
)

type CooldownBackend string

const (
	CooldownBackendMemory CooldownBackend = "memory"
	CooldownBackendRedis  CooldownBackend = "redis"
)

type CooldownConfig struct {
	Backend  CooldownBackend
	Overdue  time.Duration
	Critical time.Duration
	Elevated time.Duration
	// TTL applies to Redis keys only.
	TTL time.Duration
}

func LoadCooldownConfig() *CooldownConfig {
	backend := CooldownBackend(strings.ToLower(os.Getenv(cooldownBackendEnv)))
	if backend == "" {
		backend = CooldownBackendMemory
	}

	minutes := func(key string, fallback time.Duration) time.Duration {
		return time.Duration(positiveIntEnv(key, int(fallback/time.Minute))) * time.Minute
	}

	return &CooldownConfig{
		Backend:  backend,
		Overdue:  minutes(cooldownOverdueMinutesEnv, cooldown.DefaultOverdueCooldown),
		Critical: minutes(cooldownCriticalMinutesEnv, cooldown.DefaultCriticalCooldown),
		Elevated: minutes(cooldownElevatedMinutesEnv, cooldown.DefaultElevatedCooldown),
		TTL:      time.Duration(positiveIntEnv(cooldownTTLHoursEnv, defaultCooldownTTLHours)) * time.Hour,
	}
}

// Policy builds the per-bucket cooldown policy. It fails when a more urgent
// bucket would be throttled longer than a less urgent one.
func (c *CooldownConfig) Policy() (cooldown.Policy, error) {
	return cooldown.NewPolicy(c.Overdue, c.Critical, c.Elevated)
}

func (c *CooldownConfig) Validate() error {
	var errs []error
	if c.Backend != CooldownBackendMemory && c.Backend != CooldownBackendRedis {
		errs = append(errs, ErrUnknownCooldownBackend)
	}
	policy, err := c.Policy()
	if err != nil {
		errs = append(errs, err)
	}
	// A key expiring inside its window would let the bucket fire early.
	if err == nil && c.Backend == CooldownBackendRedis && c.TTL < policy.Longest() {
		errs = append(errs, fmt.Errorf("%w: ttl %v, longest cooldown %v", ErrCooldownTTLTooShort, c.TTL, policy.Longest()))
	}
	return errors.Join(errs...)
}
