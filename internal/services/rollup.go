package services

import (
	"math"

	"acta_backend/internal/clock"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
)

// OverviewStats is the dashboard snapshot computed live from the task table.
type OverviewStats struct {
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	PendingTasks      int     `json:"pending_tasks"`
	InProgressTasks   int     `json:"in_progress_tasks"`
	CancelledTasks    int     `json:"cancelled_tasks"`
	OverdueTasks      int     `json:"overdue_tasks"`
	DueToday          int     `json:"due_today"`
	TasksThisWeek     int     `json:"tasks_this_week"`
	CompletedThisWeek int     `json:"completed_this_week"`
	CompletionRate    float64 `json:"completion_rate"`
	ProductivityScore float64 `json:"productivity_score"`
}

// TrendPoint is one day of the productivity trend series.
type TrendPoint struct {
	Date              string  `json:"date"`
	TasksCreated      int     `json:"tasks_created"`
	TasksCompleted    int     `json:"tasks_completed"`
	CompletionRate    float64 `json:"completion_rate"`
	ProductivityScore float64 `json:"productivity_score"`
}

// CategoryStats annotates one category with live task counts.
type CategoryStats struct {
	CategoryID     uuid.UUID `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryColor  string    `json:"category_color"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	PendingTasks   int       `json:"pending_tasks"`
	OverdueTasks   int       `json:"overdue_tasks"`
	CompletionRate float64   `json:"completion_rate"`
}

// RollupService answers "right now" dashboard queries straight from the task
// table. Nothing here reads or writes the persisted stats rows, and nothing
// is cached.
type RollupService interface {
	Overview(userID uuid.UUID) (*OverviewStats, error)
	Trend(userID uuid.UUID, days int) ([]TrendPoint, error)
	CategoryStats(userID uuid.UUID) ([]CategoryStats, error)
}

type rollupService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	clock        clock.Clock
}

func NewRollupService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, clk clock.Clock) RollupService {
	return &rollupService{taskRepo: taskRepo, categoryRepo: categoryRepo, clock: clk}
}

func (s *rollupService) Overview(userID uuid.UUID) (*OverviewStats, error) {
	today := clock.StartOfDay(s.clock.Now())
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := clock.WeekStart(today)

	stats := &OverviewStats{}
	var err error

	if stats.TotalTasks, err = s.taskRepo.CountByUser(userID); err != nil {
		return nil, err
	}
	if stats.CompletedTasks, err = s.taskRepo.CountByStatus(userID, string(models.StatusCompleted)); err != nil {
		return nil, err
	}
	if stats.PendingTasks, err = s.taskRepo.CountByStatus(userID, string(models.StatusPending)); err != nil {
		return nil, err
	}
	if stats.InProgressTasks, err = s.taskRepo.CountByStatus(userID, string(models.StatusInProgress)); err != nil {
		return nil, err
	}
	if stats.CancelledTasks, err = s.taskRepo.CountByStatus(userID, string(models.StatusCancelled)); err != nil {
		return nil, err
	}
	if stats.OverdueTasks, err = s.taskRepo.CountOverdueAsOf(userID, today); err != nil {
		return nil, err
	}
	if stats.DueToday, err = s.taskRepo.CountDueBetween(userID, today, tomorrow); err != nil {
		return nil, err
	}
	if stats.TasksThisWeek, err = s.taskRepo.CountCreatedBetween(userID, weekStart, tomorrow); err != nil {
		return nil, err
	}
	if stats.CompletedThisWeek, err = s.taskRepo.CountCompletedBetween(userID, weekStart, tomorrow); err != nil {
		return nil, err
	}

	stats.CompletionRate = percentage(stats.CompletedTasks, stats.TotalTasks)
	stats.ProductivityScore = math.Min(stats.CompletionRate, 100.0)
	return stats, nil
}

// Trend recomputes each of the last `days` days with live queries; the same
// formulas the daily aggregator uses, but never the persisted rows.
func (s *rollupService) Trend(userID uuid.UUID, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 14
	}
	today := clock.StartOfDay(s.clock.Now())

	trends := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dayEnd := day.AddDate(0, 0, 1)

		created, err := s.taskRepo.CountCreatedBetween(userID, day, dayEnd)
		if err != nil {
			return nil, err
		}
		completed, err := s.taskRepo.CountCompletedBetween(userID, day, dayEnd)
		if err != nil {
			return nil, err
		}

		rate := percentage(completed, created)
		trends = append(trends, TrendPoint{
			Date:              day.Format("2006-01-02"),
			TasksCreated:      created,
			TasksCompleted:    completed,
			CompletionRate:    rate,
			ProductivityScore: math.Min(rate, 100.0),
		})
	}
	return trends, nil
}

func (s *rollupService) CategoryStats(userID uuid.UUID) ([]CategoryStats, error) {
	today := clock.StartOfDay(s.clock.Now())

	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.taskRepo.CountsByCategory(userID, today)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[uuid.UUID]repository.CategoryCounts, len(counts))
	for _, c := range counts {
		byCategory[c.CategoryID] = c
	}

	stats := make([]CategoryStats, 0, len(categories))
	for _, category := range categories {
		c := byCategory[category.ID]
		stats = append(stats, CategoryStats{
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			CategoryColor:  category.Color,
			TotalTasks:     c.Total,
			CompletedTasks: c.Completed,
			PendingTasks:   c.Pending,
			OverdueTasks:   c.Overdue,
			CompletionRate: percentage(c.Completed, c.Total),
		})
	}
	return stats, nil
}

// percentage returns 100*part/total rounded to one decimal place, 0.0 when
// total is zero.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
