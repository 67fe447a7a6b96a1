package repository

import (
	"time"

	"acta_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaskFilter narrows ListByUser. Zero values mean "no filter".
type TaskFilter struct {
	Status     string
	Priority   string
	CategoryID *uuid.UUID
	Search     string
}

// CategoryCounts is one row of the per-category aggregate used by the
// category stats rollup.
type CategoryCounts struct {
	CategoryID uuid.UUID
	Total      int
	Completed  int
	Pending    int
	Overdue    int
}

// TaskRepository is the query surface the analytics core depends on. All
// Between ranges are half-open [from, to).
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id uuid.UUID) (*models.Task, error)
	ListByUser(userID uuid.UUID, filter TaskFilter) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id uuid.UUID) error

	CountByUser(userID uuid.UUID) (int, error)
	CountByStatus(userID uuid.UUID, statuses ...string) (int, error)
	CountCreatedBetween(userID uuid.UUID, from, to time.Time) (int, error)
	CountCompletedBetween(userID uuid.UUID, from, to time.Time) (int, error)
	CountCompletedBetweenByCategory(userID, categoryID uuid.UUID, from, to time.Time) (int, error)
	CountOverdueAsOf(userID uuid.UUID, dayStart time.Time) (int, error)
	CountDueBetween(userID uuid.UUID, from, to time.Time) (int, error)

	ListCreatedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error)
	ListCompletedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error)
	ListDueBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error)
	ListOverdueAsOf(userID uuid.UUID, dayStart time.Time) ([]models.Task, error)

	SumActualHoursCompletedBetween(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	CountsByCategory(userID uuid.UUID, dayStart time.Time) ([]CategoryCounts, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Category").First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByUser(userID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	q := r.db.Preload("Category").Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	var tasks []models.Task
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

func (r *taskRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

func (r *taskRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

func (r *taskRepository) CountByStatus(userID uuid.UUID, statuses ...string) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&count).Error
	return int(count), err
}

func (r *taskRepository) CountCreatedBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return int(count), err
}

func (r *taskRepository) CountCompletedBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, string(models.StatusCompleted), from, to).
		Count(&count).Error
	return int(count), err
}

func (r *taskRepository) CountCompletedBetweenByCategory(userID, categoryID uuid.UUID, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND category_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, categoryID, string(models.StatusCompleted), from, to).
		Count(&count).Error
	return int(count), err
}

// CountOverdueAsOf counts open tasks whose due date fell on an earlier day
// than dayStart. Overdue is relative to the aggregation date, not "now".
func (r *taskRepository) CountOverdueAsOf(userID uuid.UUID, dayStart time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND due_date < ? AND status IN ?",
			userID, dayStart, openStatuses()).
		Count(&count).Error
	return int(count), err
}

func (r *taskRepository) CountDueBetween(userID uuid.UUID, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to).
		Count(&count).Error
	return int(count), err
}

func (r *taskRepository) ListCreatedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListCompletedBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, string(models.StatusCompleted), from, to).
		Order("completed_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListDueBetween(userID uuid.UUID, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListOverdueAsOf(userID uuid.UUID, dayStart time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("user_id = ? AND due_date < ? AND status IN ?", userID, dayStart, openStatuses()).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) SumActualHoursCompletedBetween(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Task{}).
		Select("SUM(actual_hours)").
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ? AND actual_hours IS NOT NULL",
			userID, string(models.StatusCompleted), from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *taskRepository) CountsByCategory(userID uuid.UUID, dayStart time.Time) ([]CategoryCounts, error) {
	var rows []CategoryCounts
	err := r.db.Model(&models.Task{}).
		Select(`category_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE due_date < ? AND status IN ('pending', 'in_progress')) AS overdue`, dayStart).
		Where("user_id = ? AND category_id IS NOT NULL", userID).
		Group("category_id").
		Scan(&rows).Error
	return rows, err
}

func openStatuses() []string {
	return []string{string(models.StatusPending), string(models.StatusInProgress)}
}
