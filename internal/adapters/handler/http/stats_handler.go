package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidsbalance/balance-engine/internal/adapters/handler/http/middleware"
	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/daily", h.GetDailyStats)
	r.GET("/stats/weekly", h.GetWeeklyStats)
	r.GET("/badges", h.ListBadges)
}

// GetDailyStats computes today's (or ?date=YYYY-MM-DD's) balance score,
// breakdown, badges and streak on demand.
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	stats, err := h.svc.GetDailyStats(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"quality_tier": domain.QualityTierFor(stats.AverageQuality),
	})
}

func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	weekStartStr := c.Query("week_start")

	var weekStart time.Time
	var err error

	if weekStartStr == "" {
		// Default to the Monday of the current week.
		now := time.Now().UTC()
		offset := (int(now.Weekday()) + 6) % 7
		weekStart = now.AddDate(0, 0, -offset).Truncate(24 * time.Hour)
	} else {
		weekStart, err = time.Parse("2006-01-02", weekStartStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start format, expected YYYY-MM-DD"})
			return
		}
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListBadges exposes the static badge catalog so clients can render
// locked and unlocked states.
func (h *StatsHandler) ListBadges(c *gin.Context) {
	c.JSON(http.StatusOK, domain.BadgeCatalog)
}
