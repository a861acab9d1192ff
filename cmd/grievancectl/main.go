// Command grievancectl reports on stored complaints and classifies complaint text offline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/repository"
)

// storeOpener returns the complaint store and a release func.
type storeOpener func(ctx context.Context, logger *zap.Logger) (repository.Store, func(), error)

type cli struct {
	cfg       *config.Config
	logger    *zap.Logger
	openStore storeOpener

	verbose bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	c := &cli{cfg: cfg, openStore: postgresStore(cfg.Postgres)}
	if err := c.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "grievancectl",
		Short:        "Grievance triage tooling",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.logger != nil {
				return nil
			}
			if !c.verbose {
				c.logger = zap.NewNop()
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log diagnostics to stderr")
	root.AddCommand(c.reportCmd(), c.classifyCmd())
	return root
}

func postgresStore(cfg config.PostgresConfig) storeOpener {
	return func(ctx context.Context, logger *zap.Logger) (repository.Store, func(), error) {
		pg, err := persistence.NewPostgres(ctx, cfg, logger)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repository.NewStore(pg.PoolHandle()), pg.Close, nil
	}
}
