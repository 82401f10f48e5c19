package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/compliance-watch/internal/config"
)

func newEvaluateCmd() *cobra.Command {
	var (
		at    string
		runID string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one evaluation tick and print the result",
		Long: `Run a single evaluation tick: load records, classify them, and send one
notification per bucket whose cooldown has elapsed.

Cooldowns only hold across runs with COOLDOWN_BACKEND=redis. With the memory
backend every invocation starts with no cooldown state.

Examples:
  # Evaluate now
  compliance-watch evaluate

  # Replay a tick at a given instant
  compliance-watch evaluate --at 2025-03-10T08:00:00-03:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q, expected RFC3339: %w", at, err)
				}
				now = parsed
			}
			if runID == "" {
				runID = uuid.NewString()
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if ephemeralCooldown(a.cfg) {
					slog.WarnContext(ctx, "cooldown state does not outlive this run, every due bucket will notify",
						slog.String("event", "cooldown.ephemeral"),
						slog.String("backend", string(a.cfg.Cooldown.Backend)),
					)
				}
				resp, err := a.evaluator.Evaluate(ctx, now, runID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluation instant (RFC3339), defaults to now")
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier, defaults to a random UUID")
	return cmd
}

// ephemeralCooldown reports whether cooldown state is lost when the process
// exits.
func ephemeralCooldown(cfg *config.Config) bool {
	return cfg.Cooldown.Backend != config.CooldownBackendRedis
}
