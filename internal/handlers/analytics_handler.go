package handlers

import (
	"net/http"
	"strconv"

	"acta_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	rollupService services.RollupService
	statsService  services.StatsService
}

func NewAnalyticsHandler(rollupService services.RollupService, statsService services.StatsService) *AnalyticsHandler {
	return &AnalyticsHandler{rollupService: rollupService, statsService: statsService}
}

// Overview serves the live dashboard snapshot.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	stats, err := h.rollupService.Overview(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute overview"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DailyStats serves persisted daily rows for the last N days (default 30).
func (h *AnalyticsHandler) DailyStats(c *gin.Context) {
	days := queryInt(c, "days", 30)
	rows, err := h.statsService.ListDaily(currentUserID(c), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily stats"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// WeeklyStats serves persisted weekly rows for the last N weeks (default 12).
func (h *AnalyticsHandler) WeeklyStats(c *gin.Context) {
	weeks := queryInt(c, "weeks", 12)
	rows, err := h.statsService.ListWeekly(currentUserID(c), weeks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load weekly stats"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Trends serves the live per-day productivity series (default 14 days).
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	days := queryInt(c, "days", 14)
	trends, err := h.rollupService.Trend(currentUserID(c), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trends"})
		return
	}
	c.JSON(http.StatusOK, trends)
}

// CategoryStats serves live per-category task counts.
func (h *AnalyticsHandler) CategoryStats(c *gin.Context) {
	stats, err := h.rollupService.CategoryStats(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute category stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}
