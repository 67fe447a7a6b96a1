package repository

import (
	"errors"
	"time"

	"acta_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository owns the two aggregate tables. Daily rows are keyed by
// (user, date), weekly rows by (user, iso year, iso week); both keys carry
// unique indexes and first-creation races resolve as updates.
type StatsRepository interface {
	GetDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, error)
	GetOrCreateDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, bool, error)
	SaveDaily(stats *models.DailyStats) error
	ListDailyRange(userID uuid.UUID, from, to time.Time) ([]models.DailyStats, error)

	GetOrCreateWeekly(userID uuid.UUID, year, week int, start, end time.Time) (*models.WeeklyStats, bool, error)
	SaveWeekly(stats *models.WeeklyStats) error
	ListWeeklySince(userID uuid.UUID, from time.Time) ([]models.WeeklyStats, error)

	CountDailyBefore(cutoff time.Time) (int, error)
	DeleteDailyBefore(cutoff time.Time) (int, error)
	CountWeeklyBefore(cutoff time.Time) (int, error)
	DeleteWeeklyBefore(cutoff time.Time) (int, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, error) {
	var stats models.DailyStats
	err := r.db.First(&stats, "user_id = ? AND date = ?", userID, date).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetOrCreateDaily returns the row for (user, date), creating a zeroed one if
// absent. Two writers racing on creation both land on the same row: the
// insert does nothing on conflict and the row is re-read.
func (r *statsRepository) GetOrCreateDaily(userID uuid.UUID, date time.Time) (*models.DailyStats, bool, error) {
	stats, err := r.GetDaily(userID, date)
	if err == nil {
		return stats, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := &models.DailyStats{
		UserID:         userID,
		Date:           date,
		CategoriesData: models.CategoryBreakdown{},
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the creation race; the other writer's row wins.
		stats, err = r.GetDaily(userID, date)
		return stats, false, err
	}
	return fresh, true, nil
}

func (r *statsRepository) SaveDaily(stats *models.DailyStats) error {
	return r.db.Save(stats).Error
}

func (r *statsRepository) ListDailyRange(userID uuid.UUID, from, to time.Time) ([]models.DailyStats, error) {
	var rows []models.DailyStats
	err := r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) GetOrCreateWeekly(userID uuid.UUID, year, week int, start, end time.Time) (*models.WeeklyStats, bool, error) {
	var stats models.WeeklyStats
	err := r.db.First(&stats, "user_id = ? AND year = ? AND week_number = ?", userID, year, week).Error
	if err == nil {
		return &stats, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := &models.WeeklyStats{
		UserID:               userID,
		Year:                 year,
		WeekNumber:           week,
		StartDate:            start,
		EndDate:              end,
		WeeklyCategoriesData: models.CategoryBreakdown{},
		DailyBreakdown:       models.DailyBreakdown{},
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "week_number"}},
		DoNothing: true,
	}).Create(fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		err = r.db.First(&stats, "user_id = ? AND year = ? AND week_number = ?", userID, year, week).Error
		return &stats, false, err
	}
	return fresh, true, nil
}

func (r *statsRepository) SaveWeekly(stats *models.WeeklyStats) error {
	return r.db.Save(stats).Error
}

func (r *statsRepository) ListWeeklySince(userID uuid.UUID, from time.Time) ([]models.WeeklyStats, error) {
	var rows []models.WeeklyStats
	err := r.db.Where("user_id = ? AND start_date >= ?", userID, from).
		Order("start_date").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) CountDailyBefore(cutoff time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.DailyStats{}).Where("date < ?", cutoff).Count(&count).Error
	return int(count), err
}

func (r *statsRepository) DeleteDailyBefore(cutoff time.Time) (int, error) {
	res := r.db.Where("date < ?", cutoff).Delete(&models.DailyStats{})
	return int(res.RowsAffected), res.Error
}

func (r *statsRepository) CountWeeklyBefore(cutoff time.Time) (int, error) {
	var count int64
	err := r.db.Model(&models.WeeklyStats{}).Where("start_date < ?", cutoff).Count(&count).Error
	return int(count), err
}

func (r *statsRepository) DeleteWeeklyBefore(cutoff time.Time) (int, error) {
	res := r.db.Where("start_date < ?", cutoff).Delete(&models.WeeklyStats{})
	return int(res.RowsAffected), res.Error
}
