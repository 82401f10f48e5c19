package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/KasumiMercury/compliance-watch/internal/config"
	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/infra/alertrecorder"
	"github.com/KasumiMercury/compliance-watch/internal/infra/repository"
	"github.com/KasumiMercury/compliance-watch/internal/infra/sheets"
	"github.com/KasumiMercury/compliance-watch/internal/infra/store"
	"github.com/KasumiMercury/compliance-watch/internal/observability/metrics"
	"github.com/KasumiMercury/compliance-watch/internal/service/alert"
	"github.com/KasumiMercury/compliance-watch/internal/service/cooldown"
	"github.com/KasumiMercury/compliance-watch/internal/service/document"
	"github.com/KasumiMercury/compliance-watch/internal/service/evaluate"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

// app holds the wired components shared by every command.
type app struct {
	cfg         *config.Config
	classifier  *status.Classifier
	store       *store.Store
	redisClient *redis.Client
	evaluator   *evaluate.Service
	documents   *document.Service

	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to release resource", slog.String("error", err.Error()))
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (a *app, err error) {
	a = &app{
		cfg:        cfg,
		classifier: status.NewClassifier(cfg.Alert.Location),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	source, mirror, err := a.initRecordSource(ctx)
	if err != nil {
		return nil, err
	}

	cooldownRepo, err := a.initCooldownRepository(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := cfg.Cooldown.Policy()
	if err != nil {
		return nil, err
	}

	sender, closeSender, err := initNotifier(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}
	if closeSender != nil {
		a.closers = append(a.closers, closeSender)
	}

	recorder, err := alertrecorder.NewRecorder(ctx, alertrecorder.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize alert result recorder: %w", err)
	}
	a.closers = append(a.closers, recorder.Close)

	alertMetrics, err := metrics.NewAlertMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize alert metrics: %w", err)
	}

	a.evaluator = evaluate.NewService(
		source,
		a.classifier,
		cooldown.NewThrottle(policy, cooldownRepo),
		alert.NewComposer(cfg.Alert.DetailLimit),
		sender,
		mirror,
		recorder,
		alertMetrics,
	)

	if a.store != nil {
		a.documents = document.NewService(a.store, a.store, a.classifier)
	}

	return a, nil
}

func (a *app) initRecordSource(ctx context.Context) (domain.RecordSource, domain.StatusMirror, error) {
	storeCfg := a.cfg.Store

	switch storeCfg.Backend {
	case config.StoreBackendSheets:
		opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
		if storeCfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(storeCfg.CredentialsFile))
		}

		source, err := sheets.NewSource(ctx, sheets.Config{
			SpreadsheetID:  storeCfg.SpreadsheetID,
			DocumentsRange: storeCfg.DocumentsRange,
			ChecklistRange: storeCfg.ChecklistRange,
		}, opts...)
		if err != nil {
			return nil, nil, err
		}

		slog.InfoContext(ctx, "record source initialized",
			slog.String("type", "sheets"),
			slog.String("documents_range", storeCfg.DocumentsRange),
			slog.Bool("mirror_status", a.cfg.Alert.MirrorStatus),
		)

		if a.cfg.Alert.MirrorStatus {
			return source, source, nil
		}
		return source, nil, nil

	default:
		st, err := store.Open(ctx, storeCfg.DatabaseURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect database",
				slog.String("event", "db.connect.fail"),
				slog.String("error", err.Error()),
			)
			return nil, nil, err
		}
		a.store = st
		a.closers = append(a.closers, st.Close)

		if err := st.Migrate(ctx); err != nil {
			return nil, nil, err
		}

		slog.InfoContext(ctx, "record source initialized", slog.String("type", "postgres"))
		return st, nil, nil
	}
}

func (a *app) initCooldownRepository(ctx context.Context) (domain.CooldownRepository, error) {
	if a.cfg.Cooldown.Backend != config.CooldownBackendRedis {
		slog.InfoContext(ctx, "cooldown repository initialized", slog.String("type", "memory"))
		return repository.NewMemoryCooldownRepository(), nil
	}

	redisClient := redis.NewClient(a.cfg.Redis.Options())
	a.redisClient = redisClient
	a.closers = append(a.closers, redisClient.Close)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.ErrorContext(ctx, "failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.ErrorContext(ctx, "failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return nil, errors.Join(repository.ErrRedisConnection, err)
	}

	slog.InfoContext(ctx, "redis connected",
		slog.String("addr", a.cfg.Redis.Addr),
	)

	return repository.NewRedisCooldownRepository(redisClient, a.cfg.Cooldown.TTL), nil
}
