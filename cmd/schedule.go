package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"renewer/internal/api"
	"renewer/internal/api/handler/v1handler"
	"renewer/internal/config"
	"renewer/internal/worker"
	"renewer/pkg/logger"
	"renewer/pkg/metrics"
	"renewer/pkg/serrors"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, deps api.Deps, opts api.Options) (func(ctx context.Context), error) {
	server, err := api.NewServer(deps, opts)
	if err != nil {
		return nil, fmt.Errorf("could not create webserver: %w", err)
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", opts.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}, nil
}

// scheduleCommand constructs the 'schedule' subcommand: a River queue running
// renewals on the configured interval next to the metrics and report server.
func scheduleCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Runs renewals periodically and serves metrics and the latest report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := cfg.Validate(); err != nil {
				notifyStartupError(ctx, cfg, err)

				return err
			}
			if !cfg.Database.Enabled {
				return serrors.With(serrors.ErrConfiguration, "schedule needs DATABASE_ENABLED=true")
			}

			m, err := metrics.New()
			if err != nil {
				return err
			}

			pg, closePg := getPostgres(ctx, cfg)
			defer closePg()

			reports := newReportStorage(cfg, pg)
			runner, closeRunner, err := newRunner(ctx, cfg, m, reports)
			if err != nil {
				notifyStartupError(ctx, cfg, err)

				return err
			}
			defer closeRunner()

			riverClient, err := worker.Start(ctx, pg.Pool, runner, cfg.Credentials(), worker.Options{
				Interval:   cfg.Schedule.Interval,
				RunOnStart: cfg.Schedule.RunOnStart,
				RunTimeout: cfg.RunTimeout,
			})
			if err != nil {
				return err
			}

			deps := api.Deps{
				Deps:          v1handler.Deps{Reports: reports},
				Registry:      m.Registry,
				MeterProvider: m.MeterProvider(),
			}
			if cfg.HTTP.RiverUIEnabled {
				ui, err := worker.NewUI(ctx, riverClient)
				if err != nil {
					stopRiver(ctx, riverClient, cfg)

					return err
				}
				deps.Jobs, deps.JobsPrefix = ui, worker.UIPrefix
			}

			stopWebserver, err := setupServer(ctx, deps, api.NewOptions(cfg))
			if err != nil {
				stopRiver(ctx, riverClient, cfg)

				return err
			}
			logger.Info(ctx, "scheduler started", zap.Duration("interval", cfg.Schedule.Interval))

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopRiver(shutdownCtx, riverClient, cfg)
			if err := m.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not shut down metrics", zap.Error(err))
			}

			return nil
		},
	}

	return cmd
}

func stopRiver(ctx context.Context, client *river.Client[pgx.Tx], cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := client.Stop(ctx); err != nil {
		logger.Error(ctx, "could not stop river queue client", zap.Error(err))
	}
}
