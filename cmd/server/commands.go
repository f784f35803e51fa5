package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lumo-api/internal/config"
	"github.com/phrazzld/lumo-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// newRootCmd builds the CLI. Running the binary without a subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lumo-api",
		Short:         "Lumo API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})

	root.AddCommand(&cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE:      runMigrate,
	})

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		_ = db.Close()
		return err
	}

	return app.Run(ctx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db, args[0], logger); err != nil {
		logger.Error("migration failed", "command", args[0], "error", err)
		return err
	}
	logger.Info("migration finished", "command", args[0])
	return nil
}

// bootstrap loads configuration and installs the configured logger as the
// slog default.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	logger, err := setupAppLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	return cfg, logger, nil
}
