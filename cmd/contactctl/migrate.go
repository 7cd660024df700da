package main

import (
	"errors"
	"log/slog"

	"contact-pipeline/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres submission schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.LoadAppConfig()
	if cfg.StoreType != config.StorePostgres {
		return errors.New("migrate needs STORE_TYPE=postgres and DATABASE_URL")
	}

	store, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	logger.Info("migrations applied", slog.String("store", cfg.StoreType))
	return nil
}
