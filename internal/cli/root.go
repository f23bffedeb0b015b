package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/project-votes/internal/config"
	"github.com/emilythestrangee/project-votes/internal/database"
	"github.com/emilythestrangee/project-votes/internal/logging"
	"github.com/emilythestrangee/project-votes/internal/storage/postgres"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "votes",
		Short:        "Project votes service: tallies and single-use voucher codes",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(), newSeedCmd(), newRecountCmd())
	return cmd
}

// env is what every subcommand needs once configuration is loaded.
type env struct {
	cfg   config.Config
	db    database.Service
	store *postgres.Store
}

func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
}

// bootstrap loads config, installs logging and connects to the database.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(level)

	db, err := database.New(ctx, cfg, database.WithLogger(logging.GormLogger(logger, level)))
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:   cfg,
		db:    db,
		store: postgres.New(db.GetDB()),
	}, nil
}
