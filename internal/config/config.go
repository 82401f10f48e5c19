package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	LogLevel slog.Level
	Store    *StoreConfig
	Cooldown *CooldownConfig
	Redis    *RedisConfig
	Notify   *NotifyConfig
	Alert    *AlertConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	alertConfig, err := LoadAlertConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		Store:    LoadStoreConfig(),
		Cooldown: LoadCooldownConfig(),
		Redis:    redisConfig,
		Notify:   LoadNotifyConfig(),
		Alert:    alertConfig,
	}, nil
}

// Validate checks every block and reports all problems at once.
func (c *Config) Validate() error {
	errs := []error{
		c.Store.Validate(),
		c.Cooldown.Validate(),
		c.Notify.Validate(),
	}
	if c.Cooldown.Backend == CooldownBackendRedis {
		errs = append(errs, c.Redis.Validate())
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("configuration errors: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func positiveIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
