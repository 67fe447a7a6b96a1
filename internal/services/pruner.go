package services

import (
	"log"
	"time"

	"acta_backend/internal/clock"
	"acta_backend/internal/repository"
)

// PruneOptions controls the retention pruner. Real deletion needs Confirm;
// DryRun reports candidates and mutates nothing.
type PruneOptions struct {
	KeepDays  int // default 90
	KeepWeeks int // default 52
	DryRun    bool
	Confirm   bool
}

type PruneResult struct {
	DailyCutoff      time.Time
	WeeklyCutoff     time.Time
	DailyCandidates  int
	WeeklyCandidates int
	DailyDeleted     int
	WeeklyDeleted    int
	Aborted          bool
}

type Pruner interface {
	Prune(opts PruneOptions) (*PruneResult, error)
}

type pruner struct {
	statsRepo repository.StatsRepository
	clock     clock.Clock
}

func NewPruner(statsRepo repository.StatsRepository, clk clock.Clock) Pruner {
	return &pruner{statsRepo: statsRepo, clock: clk}
}

func (p *pruner) Prune(opts PruneOptions) (*PruneResult, error) {
	if opts.KeepDays <= 0 {
		opts.KeepDays = 90
	}
	if opts.KeepWeeks <= 0 {
		opts.KeepWeeks = 52
	}

	today := clock.StartOfDay(p.clock.Now())
	result := &PruneResult{
		DailyCutoff:  today.AddDate(0, 0, -opts.KeepDays),
		WeeklyCutoff: today.AddDate(0, 0, -opts.KeepWeeks*7),
	}

	// Deletion is irreversible, so absent both flags the run is a no-op
	// that only reports what it would have done.
	if !opts.DryRun && !opts.Confirm {
		log.Println("Pruning permanently deletes analytics data. Use dry-run to preview or confirm to execute.")
		result.Aborted = true
	}

	dailyCount, err := p.statsRepo.CountDailyBefore(result.DailyCutoff)
	if err != nil {
		return nil, err
	}
	weeklyCount, err := p.statsRepo.CountWeeklyBefore(result.WeeklyCutoff)
	if err != nil {
		return nil, err
	}
	result.DailyCandidates = dailyCount
	result.WeeklyCandidates = weeklyCount

	log.Printf("Found %d daily stats rows older than %s", dailyCount, result.DailyCutoff.Format("2006-01-02"))
	log.Printf("Found %d weekly stats rows starting before %s", weeklyCount, result.WeeklyCutoff.Format("2006-01-02"))

	if result.Aborted || opts.DryRun {
		if opts.DryRun {
			log.Printf("Dry run: would delete %d daily and %d weekly rows", dailyCount, weeklyCount)
		}
		return result, nil
	}

	if dailyCount > 0 {
		deleted, err := p.statsRepo.DeleteDailyBefore(result.DailyCutoff)
		if err != nil {
			return nil, err
		}
		result.DailyDeleted = deleted
		log.Printf("Deleted %d daily stats rows", deleted)
	}
	if weeklyCount > 0 {
		deleted, err := p.statsRepo.DeleteWeeklyBefore(result.WeeklyCutoff)
		if err != nil {
			return nil, err
		}
		result.WeeklyDeleted = deleted
		log.Printf("Deleted %d weekly stats rows", deleted)
	}

	log.Printf("Cleanup completed: %d daily + %d weekly rows deleted", result.DailyDeleted, result.WeeklyDeleted)
	return result, nil
}
