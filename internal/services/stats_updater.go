package services

import (
	"fmt"
	"time"

	"acta_backend/internal/clock"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"
)

// StatsUpdater keeps today's DailyStats row in step with task writes. It is
// called synchronously from the task write path and only ever touches the row
// for the day the mutation happens on; backdated completions are picked up by
// the batch aggregator.
type StatsUpdater interface {
	OnTaskSaved(task *models.Task, wasCreated bool, previousStatus string) error
}

type statsUpdater struct {
	taskRepo     repository.TaskRepository
	statsRepo    repository.StatsRepository
	categoryRepo repository.CategoryRepository
	clock        clock.Clock
}

func NewStatsUpdater(
	taskRepo repository.TaskRepository,
	statsRepo repository.StatsRepository,
	categoryRepo repository.CategoryRepository,
	clk clock.Clock,
) StatsUpdater {
	return &statsUpdater{
		taskRepo:     taskRepo,
		statsRepo:    statsRepo,
		categoryRepo: categoryRepo,
		clock:        clk,
	}
}

// OnTaskSaved recomputes today's row for the task's owner. Counters that can
// drift under repeated saves (completed counts) are recounted from the task
// table rather than incremented, so saving the same task twice converges on
// the same row. previousStatus is accepted for symmetry with the write path;
// the recount makes the update independent of the particular transition.
func (s *statsUpdater) OnTaskSaved(task *models.Task, wasCreated bool, previousStatus string) error {
	_ = previousStatus

	today := clock.StartOfDay(s.clock.Now())
	tomorrow := today.AddDate(0, 0, 1)

	stats, _, err := s.statsRepo.GetOrCreateDaily(task.UserID, today)
	if err != nil {
		return fmt.Errorf("fetch daily stats: %w", err)
	}

	if wasCreated {
		stats.TasksCreated++
	}

	completed, err := s.taskRepo.CountCompletedBetween(task.UserID, today, tomorrow)
	if err != nil {
		return fmt.Errorf("recount completed tasks: %w", err)
	}
	stats.TasksCompleted = completed
	stats.ProductivityScore = models.ProductivityScoreFor(stats.TasksCreated, stats.TasksCompleted)

	if task.CategoryID != nil {
		if err := s.updateCategoryData(stats, task, wasCreated, today, tomorrow); err != nil {
			return err
		}
	}

	if err := s.statsRepo.SaveDaily(stats); err != nil {
		return fmt.Errorf("save daily stats: %w", err)
	}
	return nil
}

// updateCategoryData maintains the per-category slice of today's row. The
// name/color snapshot is taken the first time the category shows up; renames
// after that do not rewrite history.
func (s *statsUpdater) updateCategoryData(stats *models.DailyStats, task *models.Task, wasCreated bool, today, tomorrow time.Time) error {
	category := task.Category
	if category == nil {
		loaded, err := s.categoryRepo.GetByID(*task.CategoryID)
		if err != nil {
			return fmt.Errorf("resolve category %s: %w", task.CategoryID, err)
		}
		category = loaded
	}

	if stats.CategoriesData == nil {
		stats.CategoriesData = models.CategoryBreakdown{}
	}
	catID := category.ID.String()
	stats.CategoriesData.Seed(catID, category.Name, category.Color)
	if wasCreated {
		stats.CategoriesData.AddCreated(catID, 1)
	}

	completed, err := s.taskRepo.CountCompletedBetweenByCategory(task.UserID, category.ID, today, tomorrow)
	if err != nil {
		return fmt.Errorf("recount category completions: %w", err)
	}
	stats.CategoriesData.SetCompleted(catID, completed)
	return nil
}
