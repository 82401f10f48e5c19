package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	ntfyURLEnv           = "NTFY_URL"
	ntfyTopicEnv         = "NTFY_TOPIC"
	ntfyTokenEnv         = "NTFY_TOKEN"
	notifyMaxRetriesEnv  = "NOTIFY_MAX_RETRIES"
	notifyTimeoutSecsEnv = "NOTIFY_TIMEOUT_SECONDS"

	defaultNtfyURL           = "https://ntfy.sh"
	defaultNotifyMaxRetries  = 3
	defaultNotifyTimeoutSecs = 10
)

type NotifyConfig struct {
	NtfyURL    string
	Topic      string
	Token      string
	MaxRetries int
	Timeout    time.Duration

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
}

func LoadNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		NtfyURL:    stringEnv(ntfyURLEnv, defaultNtfyURL),
		Topic:      os.Getenv(ntfyTopicEnv),
		Token:      os.Getenv(ntfyTokenEnv),
		MaxRetries: positiveIntEnv(notifyMaxRetriesEnv, defaultNotifyMaxRetries),
		Timeout:    time.Duration(positiveIntEnv(notifyTimeoutSecsEnv, defaultNotifyTimeoutSecs)) * time.Second,

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
	}
}

func notifyErrors(errs []error) error {
	if len(errs) > 0 {
		return fmt.Errorf("notification configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
