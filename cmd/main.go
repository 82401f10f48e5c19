package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/compliance-watch/internal/config"

	_ "time/tzdata"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compliance-watch",
		Short: "Track compliance document deadlines and push throttled alerts",
		Long: `compliance-watch classifies licenses and certifications by how close they
are to expiring and sends one consolidated push notification per urgency
bucket, throttled by a per-bucket cooldown.

Without a subcommand the HTTP API is served.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), runServe)
		},
	}

	root.AddCommand(newServeCmd(), newEvaluateCmd(), newImportCmd())
	return root
}

// withApp loads configuration, initialises logging and telemetry, wires the
// application and runs fn. Everything is released when fn returns.
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	obs, err := initObservability(ctx, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := cfg.Validate(); err != nil {
		slog.ErrorContext(ctx, "configuration validation error", slog.String("error", err.Error()))
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
