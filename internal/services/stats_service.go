package services

import (
	"acta_backend/internal/clock"
	"acta_backend/internal/models"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
)

// DailyStatsResponse is a daily row plus its derived completion rate.
type DailyStatsResponse struct {
	models.DailyStats
	CompletionRate float64 `json:"completion_rate"`
}

// WeeklyStatsResponse is a weekly row plus its derived completion rate.
type WeeklyStatsResponse struct {
	models.WeeklyStats
	CompletionRate float64 `json:"completion_rate"`
}

// StatsService reads the persisted aggregate rows for the API. Unlike the
// rollup service this serves historical rows, not live recomputation.
type StatsService interface {
	ListDaily(userID uuid.UUID, days int) ([]DailyStatsResponse, error)
	ListWeekly(userID uuid.UUID, weeks int) ([]WeeklyStatsResponse, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	clock     clock.Clock
}

func NewStatsService(statsRepo repository.StatsRepository, clk clock.Clock) StatsService {
	return &statsService{statsRepo: statsRepo, clock: clk}
}

func (s *statsService) ListDaily(userID uuid.UUID, days int) ([]DailyStatsResponse, error) {
	if days <= 0 {
		days = 30
	}
	today := clock.StartOfDay(s.clock.Now())
	from := today.AddDate(0, 0, -days)

	rows, err := s.statsRepo.ListDailyRange(userID, from, today)
	if err != nil {
		return nil, err
	}
	out := make([]DailyStatsResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, DailyStatsResponse{
			DailyStats:     row,
			CompletionRate: row.CompletionRate().InexactFloat64(),
		})
	}
	return out, nil
}

func (s *statsService) ListWeekly(userID uuid.UUID, weeks int) ([]WeeklyStatsResponse, error) {
	if weeks <= 0 {
		weeks = 12
	}
	today := clock.StartOfDay(s.clock.Now())
	from := today.AddDate(0, 0, -weeks*7)

	rows, err := s.statsRepo.ListWeeklySince(userID, from)
	if err != nil {
		return nil, err
	}
	out := make([]WeeklyStatsResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, WeeklyStatsResponse{
			WeeklyStats:    row,
			CompletionRate: row.CompletionRate().InexactFloat64(),
		})
	}
	return out, nil
}
