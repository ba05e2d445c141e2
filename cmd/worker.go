package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/recruitment/resume/worker"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the resume parse workers and scheduled sweeps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container, err := NewContainer(ctx, cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		pool, err := startWorkers(ctx, container)
		if err != nil {
			return err
		}
		<-ctx.Done()
		logx.Info("shutting down workers")
		pool.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// startWorkers runs the parse pool with the delayed-job mover, the queue
// depth refresh and the onboarding overdue sweep.
func startWorkers(ctx context.Context, c *Container) (*worker.Pool, error) {
	cfg := c.Config.Worker
	pool := worker.NewPool(c.ParseService, c.Queue, cfg)

	if cfg.DelayedSweep != "" {
		pool.AddSweep("queue_stats", cfg.DelayedSweep, func(ctx context.Context) error {
			_, err := c.ParseService.QueueStats(ctx)
			return err
		})
	}
	if cfg.OverdueSweep != "" {
		pool.AddSweep("onboarding_overdue", cfg.OverdueSweep, func(ctx context.Context) error {
			_, err := c.OnboardingService.MarkOverdue(ctx)
			return err
		})
	}

	if err := pool.Start(ctx); err != nil {
		return nil, err
	}
	return pool, nil
}
