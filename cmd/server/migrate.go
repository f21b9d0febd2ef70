package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/store"
	"github.com/arturoeanton/go-repo-onboarding/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|<version>]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE:      runMigrate,
	}
}

func migrateTarget(args []string) (int, error) {
	if len(args) == 0 || args[0] == "up" {
		return -1, nil
	}
	if args[0] == "down" {
		return 0, nil
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("migrate: want up, down or a positive version, got %q", args[0])
	}
	return v, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	target, err := migrateTarget(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, false)
	if err := cfg.Require("DATABASE_URL"); err != nil {
		return err
	}

	connector := store.NewConnector(store.ConnectorConfig{
		DSN:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
	}, logger, nil)
	defer connector.Close()

	db, err := connector.DB(cmd.Context())
	if err != nil {
		return err
	}
	return store.Migrate(cmd.Context(), db, logger, target)
}
