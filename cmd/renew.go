package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"renewer/internal/config"
	"renewer/pkg/logger"
	"renewer/pkg/metrics"
	"renewer/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// renewCommand constructs the 'renew' subcommand performing one run. It exits
// non-zero only when the run could not reach the domain loop.
func renewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Logs in and claims the free renewal of every listed domain once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := cfg.Validate(); err != nil {
				notifyStartupError(ctx, cfg, err)

				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
			defer cancel()

			m, err := metrics.New()
			if err != nil {
				return fmt.Errorf("could not create metrics: %w", err)
			}
			defer func() {
				if err := m.Shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Warn(ctx, "could not shut down metrics", zap.Error(err))
				}
			}()

			var pg *postgres.PgSQL
			if cfg.Database.Enabled {
				var closePg func()
				pg, closePg = getPostgres(ctx, cfg)
				defer closePg()
			}

			runner, closeRunner, err := newRunner(ctx, cfg, m, newReportStorage(cfg, pg))
			if err != nil {
				notifyStartupError(ctx, cfg, err)

				return err
			}
			defer closeRunner()

			_, runErr := runner.Run(ctx, cfg.Credentials())

			if path := cfg.Report.MetricsTextfile; path != "" {
				if err := m.WriteTextfile(path); err != nil {
					logger.Warn(ctx, "could not write metrics textfile", zap.String("path", path), zap.Error(err))
				}
			}

			return runErr
		},
	}

	return cmd
}
