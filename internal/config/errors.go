package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrUnknownStoreBackend    = errors.New("STORE_BACKEND must be postgres or sheets")
	ErrDatabaseURLMissing     = errors.New("DATABASE_URL is required for the postgres backend")
	ErrSpreadsheetIDMissing   = errors.New("SHEETS_SPREADSHEET_ID is required for the sheets backend")
	ErrUnknownCooldownBackend = errors.New("COOLDOWN_BACKEND must be memory or redis")
	ErrCooldownTTLTooShort    = errors.New("COOLDOWN_TTL_HOURS must cover the longest cooldown")
	ErrInvalidTimezone        = errors.New("TIMEZONE must be a valid IANA zone")
	ErrNtfyTopicMissing       = errors.New("NTFY_TOPIC is required")
)
