package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var errImportNeedsDatabase = errors.New("import requires STORE_BACKEND=postgres")

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk import documents from a CSV file",
		Long: `Import reads a CSV file with a header row (";" or "," delimited) and
creates one document per row. Existing documents are skipped and rows with
missing fields or unparseable dates are reported with their line number.

Examples:
  compliance-watch import documentos.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if a.documents == nil {
					return errImportNeedsDatabase
				}

				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()

				summary, err := a.documents.ImportCSV(ctx, f)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created: %d, skipped: %d, rejected: %d\n",
					len(summary.Created), len(summary.Skipped), len(summary.Rejected))
				for _, rejected := range summary.Rejected {
					fmt.Fprintf(out, "  %s\n", rejected.Error())
				}
				if len(summary.Rejected) > 0 {
					slog.WarnContext(ctx, "import finished with rejected rows",
						slog.String("file", args[0]),
						slog.Int("rejected", len(summary.Rejected)),
					)
				}
				return nil
			})
		},
	}
}
