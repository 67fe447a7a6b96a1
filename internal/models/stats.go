package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyStats is the per-user daily aggregate row. One row per (user, date),
// created lazily by the incremental updater or the batch aggregator and
// rewritten in full by the aggregator. Derived data: the task table is
// authoritative and every counter can be rebuilt from it.
type DailyStats struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_daily_stats_user_date,priority:1"`
	Date              time.Time         `json:"date" gorm:"type:date;not null;uniqueIndex:idx_daily_stats_user_date,priority:2;index"`
	TasksCreated      int               `json:"tasks_created" gorm:"default:0"`
	TasksCompleted    int               `json:"tasks_completed" gorm:"default:0"`
	TasksOverdue      int               `json:"tasks_overdue" gorm:"default:0"`
	HoursWorked       decimal.Decimal   `json:"hours_worked" gorm:"type:decimal(5,2);default:0"`
	ProductivityScore decimal.Decimal   `json:"productivity_score" gorm:"type:decimal(5,2);default:0"`
	CategoriesData    CategoryBreakdown `json:"categories_data" gorm:"type:jsonb"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (s *DailyStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CompletionRate returns tasks_completed/tasks_created as a percentage,
// quantized to two decimal places. Zero when nothing was created.
func (s *DailyStats) CompletionRate() decimal.Decimal {
	if s.TasksCreated == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.TasksCompleted)).
		Div(decimal.NewFromInt(int64(s.TasksCreated))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// ProductivityScoreFor computes min(100, 100*completed/created) rounded to
// two places, the score stored on daily rows and recomputed on every update.
func ProductivityScoreFor(created, completed int) decimal.Decimal {
	if created == 0 {
		return decimal.Zero
	}
	score := decimal.NewFromInt(int64(completed)).
		Div(decimal.NewFromInt(int64(created))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	hundred := decimal.NewFromInt(100)
	if score.GreaterThan(hundred) {
		return hundred
	}
	return score
}

// WeeklyStats is the Monday..Sunday rollup of daily rows, keyed by the ISO
// week containing its end date. Written only by the batch aggregator.
type WeeklyStats struct {
	ID                       uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID                   uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_weekly_stats_user_week,priority:1"`
	Year                     int               `json:"year" gorm:"not null;uniqueIndex:idx_weekly_stats_user_week,priority:2"`
	WeekNumber               int               `json:"week_number" gorm:"not null;uniqueIndex:idx_weekly_stats_user_week,priority:3"`
	StartDate                time.Time         `json:"start_date" gorm:"type:date;not null;index"`
	EndDate                  time.Time         `json:"end_date" gorm:"type:date;not null"`
	TotalTasksCreated        int               `json:"total_tasks_created" gorm:"default:0"`
	TotalTasksCompleted      int               `json:"total_tasks_completed" gorm:"default:0"`
	TotalTasksOverdue        int               `json:"total_tasks_overdue" gorm:"default:0"`
	TotalHoursWorked         decimal.Decimal   `json:"total_hours_worked" gorm:"type:decimal(6,2);default:0"`
	AverageProductivityScore decimal.Decimal   `json:"average_productivity_score" gorm:"type:decimal(5,2);default:0"`
	WeeklyCategoriesData     CategoryBreakdown `json:"weekly_categories_data" gorm:"type:jsonb"`
	DailyBreakdown           DailyBreakdown    `json:"daily_breakdown" gorm:"type:jsonb"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

func (s *WeeklyStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CompletionRate returns the weekly completion percentage, two decimal places.
func (s *WeeklyStats) CompletionRate() decimal.Decimal {
	if s.TotalTasksCreated == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.TotalTasksCompleted)).
		Div(decimal.NewFromInt(int64(s.TotalTasksCreated))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
