package main

import (
	"context"

	"renewer/internal/config"
	"renewer/internal/worker"
	"renewer/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// triggerCommand constructs the 'trigger' subcommand enqueueing an immediate
// run for a running scheduler.
func triggerCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Enqueues a renewal run for the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			inserted, err := strg.AddJob(ctx, worker.RenewJobArgs{Trigger: worker.TriggerManual}, nil)
			if err != nil {
				return err
			}

			if !inserted {
				logger.Info(ctx, "a run is already queued or running")

				return nil
			}
			logger.Info(ctx, "run enqueued", zap.String("trigger", worker.TriggerManual))

			return nil
		},
	}

	return cmd
}
