package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/database"
	"github.com/deppfellow/phonebook/internal/logger"
	"github.com/deppfellow/phonebook/internal/server"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:          "phonebook",
		Short:        "Phonebook contacts API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve, newSeedCmd())
	return cmd
}

// openServer prepares the configured record store and returns the
// application container. The postgres store is migrated first.
func openServer(ctx context.Context, cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) (*server.Server, error) {
	if cfg.Store.Driver == config.DriverPostgres {
		if err := database.Migrate(ctx, log, cfg); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return server.New(cfg, log, loggerService)
}
