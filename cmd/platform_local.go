//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/compliance-watch/internal/config"
	"github.com/KasumiMercury/compliance-watch/internal/infra/notifier"
	"github.com/KasumiMercury/compliance-watch/internal/observability"
	"github.com/KasumiMercury/compliance-watch/internal/observability/logging"
)

func initNotifier(ctx context.Context, cfg *config.Config) (notifier.Notifier, func() error, error) {
	client := notifier.NewNtfyClient(notifier.NtfyConfig{
		BaseURL:    cfg.Notify.NtfyURL,
		Topic:      cfg.Notify.Topic,
		Token:      cfg.Notify.Token,
		MaxRetries: cfg.Notify.MaxRetries,
		Timeout:    cfg.Notify.Timeout,
	})

	slog.InfoContext(ctx, "notifier initialized",
		slog.String("type", "ntfy"),
		slog.String("url", cfg.Notify.NtfyURL),
		slog.String("topic", cfg.Notify.Topic),
	)

	return client, nil, nil
}

func initObservability(ctx context.Context, level slog.Level) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "compliance-watch"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      level,
	})
}
