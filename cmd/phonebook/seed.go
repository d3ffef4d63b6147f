package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/logger"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/service"
)

var errSeedUsage = errors.New("give password as argument")

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <password> [<name> <number>]",
		Short: "Add one contact, or list all contacts, directly against the store",
		Long: "With a name and number, stores a new contact and reports it.\n" +
			"With only the password, prints every stored contact.\n" +
			"The password overrides the configured store password.",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return errSeedUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyStoreCredential(cfg, args[0])

			loggerService := logger.NewLoggerService(cfg.Observability)
			defer loggerService.Shutdown()
			log := logger.NewLoggerWithService(cfg.Observability, loggerService)

			srv, err := openServer(cmd.Context(), cfg, &log, loggerService)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close store connection")
				}
			}()

			repos, err := repository.NewRepositories(srv)
			if err != nil {
				return err
			}

			return runSeed(cmd.Context(), cmd.OutOrStdout(), service.NewPersonService(srv, repos.Persons), args[1:])
		},
	}
}

// applyStoreCredential sets the password of the configured store.
func applyStoreCredential(cfg *config.Config, credential string) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		cfg.Database.Password = credential
	case config.DriverRedis:
		cfg.Redis.Password = credential
	}
}

// runSeed adds contact ({name, number}) when given, otherwise lists the store.
func runSeed(ctx context.Context, out io.Writer, persons *service.PersonService, contact []string) error {
	if len(contact) == 2 {
		p, err := persons.Create(ctx, contact[0], contact[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "added %s number %s to phonebook\n", p.Name, p.Number)
		return err
	}

	all, err := persons.List(ctx)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, "phonebook:"); err != nil {
		return err
	}
	for _, p := range all {
		if _, err := fmt.Fprintf(out, "%s %s\n", p.Name, p.Number); err != nil {
			return err
		}
	}
	return nil
}
