package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/esgtrack/internal/scheduler"
	"github.com/wonny/esgtrack/internal/scheduler/jobs"
	"github.com/wonny/esgtrack/pkg/config"
	"github.com/wonny/esgtrack/pkg/logger"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run collection on a cron schedule",
	Long: `Starts the scheduler daemon and runs a full collection pass on
the configured cron schedule (six fields, with seconds).

The default schedule is "0 30 6 * * *" (daily at 06:30), before US
market open. Failed runs are retried with a delay.

Example:
  go run ./cmd/esgtrack schedule
  go run ./cmd/esgtrack schedule --cron "0 0 */6 * * *"
  go run ./cmd/esgtrack schedule --now`,
	RunE: runSchedule,
}

var (
	scheduleCron string
	scheduleNow  bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	// Flags
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression (overrides COLLECT_SCHEDULE)")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "run the collection job immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== esgtrack Scheduler ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override schedule if flag is set
	if scheduleCron != "" {
		cfg.Collect.Schedule = scheduleCron
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create scheduler and register the collection job
	sched := scheduler.New(log)

	collectJob := jobs.NewCollectJob(cfg.Collect.Schedule, func(ctx context.Context) error {
		_, err := runCollection(ctx, cfg, log)
		return err
	})

	if err := sched.AddJob(collectJob); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	// 4. Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Printf("\nSchedule: %s\n", cfg.Collect.Schedule)
	fmt.Println("\nPress Ctrl+C to stop")

	if scheduleNow {
		if err := sched.RunJob(collectJob.Name()); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Stop waits for a running collection pass to finish
	sched.Stop()

	return nil
}
