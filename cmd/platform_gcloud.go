//go:build gcloud

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
	cloudTasks, err := notifier.NewCloudTasksNotifier(ctx, notifier.CloudTasksConfig{
		ProjectID:  cfg.Notify.GCloudProjectID,
		LocationID: cfg.Notify.GCloudLocationID,
		QueueID:    cfg.Notify.GCloudQueueID,
		TargetURL:  cfg.Notify.NtfyURL,
		Topic:      cfg.Notify.Topic,
		Token:      cfg.Notify.Token,
		MaxRetries: cfg.Notify.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "notifier initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Notify.GCloudProjectID),
		slog.String("location", cfg.Notify.GCloudLocationID),
		slog.String("queue", cfg.Notify.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasks.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasks, cleanup, nil
}

func initObservability(ctx context.Context, level slog.Level) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "compliance-watch"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      level,
	})
}
