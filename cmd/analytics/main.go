package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"acta_backend/internal/clock"
	"acta_backend/internal/config"
	"acta_backend/internal/database"
	"acta_backend/internal/redis"
	"acta_backend/internal/repository"
	"acta_backend/internal/services"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "analytics",
		Short: "Batch jobs for the analytics tables",
	}
	root.AddCommand(newCalculateCmd())
	root.AddCommand(newCleanupCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCalculateCmd() *cobra.Command {
	var (
		dateStr string
		user    string
		days    int
		weekly  bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Recompute daily stats for a date range, optionally rolling up the week",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := services.RunOptions{UserEmail: user, Days: days, Weekly: weekly}
			if dateStr != "" {
				date, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
				}
				opts.Date = date
			}

			aggregator, _, cleanup, err := buildJobs()
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := aggregator.Run(opts)
			if err != nil {
				return err
			}
			log.Printf("Daily rows: %d created, %d updated; weekly rows: %d created, %d updated; %d failures",
				summary.DailyCreated, summary.DailyUpdated, summary.WeeklyCreated, summary.WeeklyUpdated, summary.Failures)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "calculate for a specific date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&user, "user", "", "calculate for a specific user email (default all users)")
	cmd.Flags().IntVar(&days, "days", 7, "calculate for the last N days")
	cmd.Flags().BoolVar(&weekly, "weekly", false, "also calculate weekly stats")
	return cmd
}

func newCleanupCmd() *cobra.Command {
	var (
		days    int
		weeks   int
		dryRun  bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete analytics rows past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pruner, cleanup, err := buildJobs()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := pruner.Prune(services.PruneOptions{
				KeepDays:  days,
				KeepWeeks: weeks,
				DryRun:    dryRun,
				Confirm:   confirm,
			})
			if err != nil {
				return err
			}
			if result.Aborted {
				log.Println("Nothing deleted. Re-run with --dry-run to preview or --confirm to execute.")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "keep daily stats for the last N days")
	cmd.Flags().IntVar(&weeks, "weeks", 52, "keep weekly stats for the last N weeks")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "actually perform the deletion")
	return cmd
}

// buildJobs wires the batch services against the configured database and
// redis instance.
func buildJobs() (services.Aggregator, services.Pruner, func(), error) {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cleanup := func() { redisClient.Close() }

	clk := clock.Real()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	aggregator := services.NewAggregator(userRepo, taskRepo, statsRepo, clk, redisClient)
	pruner := services.NewPruner(statsRepo, clk)
	return aggregator, pruner, cleanup, nil
}
