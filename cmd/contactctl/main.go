// Command contactctl is the operator CLI for the contact pipeline. It reads
// the same environment as the API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"contact-pipeline/internal/app"
	"contact-pipeline/internal/config"
	"contact-pipeline/internal/observability/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logger *slog.Logger

	// openStore is swapped in tests.
	openStore = func(ctx context.Context, cfg *config.AppConfig, migrate bool) (*app.Store, error) {
		return app.OpenStore(ctx, cfg, migrate)
	}
)

var rootCmd = &cobra.Command{
	Use:           "contactctl",
	Short:         "Inspect and maintain contact form submissions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if logger == nil {
			logger = logging.NewTextLogger()
			slog.SetDefault(logger)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd, migrateCmd, summarizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.NewTextLogger().Error("contactctl failed", logging.Err(err))
		os.Exit(1)
	}
}
