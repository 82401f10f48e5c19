package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/compliance-watch/internal/handler"
	"github.com/KasumiMercury/compliance-watch/internal/health"
	"github.com/KasumiMercury/compliance-watch/internal/observability/logging"
	"github.com/KasumiMercury/compliance-watch/internal/observability/metrics"
	"github.com/KasumiMercury/compliance-watch/internal/observability/middleware"
)

const serviceModule = logging.Module("compliance-watch")

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the alert and document API. An external scheduler drives alerting
by calling POST /api/v1/alerts/evaluate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), runServe)
		},
	}
}

func newRouter(a *app, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/compliance-watch/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	checks := []health.Option{health.WithRedis(a.redisClient)}
	if a.store != nil {
		checks = append(checks, health.WithDependency("database", a.store))
	}
	health.NewChecker(Version, checks...).Register(r)

	var documents *handler.DocumentHandler
	if a.documents != nil {
		documents = handler.NewDocumentHandler(a.documents)
	}
	handler.Register(r, handler.NewAlertHandler(a.evaluator, nil), documents)

	return r
}

func runServe(ctx context.Context, a *app) error {
	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           newRouter(a, httpMetrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting server",
			slog.String("port", a.cfg.Port),
			slog.String("store_backend", string(a.cfg.Store.Backend)),
			slog.String("cooldown_backend", string(a.cfg.Cooldown.Backend)),
			slog.String("timezone", a.cfg.Alert.Timezone),
		)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return err
		}

		slog.Info("server exited properly")
		return nil

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return err
	}
}
