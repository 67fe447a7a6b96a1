package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDailyCompletionRate(t *testing.T) {
	s := &DailyStats{TasksCreated: 10, TasksCompleted: 6}
	assert.Equal(t, "60", s.CompletionRate().String())

	s = &DailyStats{TasksCreated: 3, TasksCompleted: 1}
	assert.Equal(t, "33.33", s.CompletionRate().String())

	s = &DailyStats{TasksCreated: 0, TasksCompleted: 0}
	assert.True(t, s.CompletionRate().IsZero())
}

func TestProductivityScoreFor(t *testing.T) {
	assert.True(t, ProductivityScoreFor(0, 0).IsZero())
	assert.True(t, ProductivityScoreFor(0, 5).IsZero(), "no creations means no score")

	assert.Equal(t, "50", ProductivityScoreFor(4, 2).String())
	assert.Equal(t, "66.67", ProductivityScoreFor(3, 2).String())

	// Completing backlog from earlier days can push completed past created;
	// the score is capped, not allowed past 100.
	assert.Equal(t, "100", ProductivityScoreFor(2, 5).String())
}

func TestWeeklyCompletionRate(t *testing.T) {
	s := &WeeklyStats{TotalTasksCreated: 7, TotalTasksCompleted: 2}
	assert.Equal(t, "28.57", s.CompletionRate().String())

	s = &WeeklyStats{}
	assert.True(t, s.CompletionRate().IsZero())
}

func TestDecimalRounding(t *testing.T) {
	// decimal(5,2) columns hold what Round(2) produces.
	hours := decimal.RequireFromString("2.345").Round(2)
	assert.Equal(t, "2.35", hours.String())
}
