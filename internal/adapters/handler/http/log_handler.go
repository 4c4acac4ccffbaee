package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidsbalance/balance-engine/internal/adapters/handler/http/middleware"
	"github.com/kidsbalance/balance-engine/internal/core/services"
)

type LogHandler struct {
	svc *services.LogService
}

func NewLogHandler(svc *services.LogService) *LogHandler {
	return &LogHandler{
		svc: svc,
	}
}

type createLogRequest struct {
	ActivityID      string    `json:"activity_id" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	Notes           string    `json:"notes"`
	LoggedAt        time.Time `json:"logged_at"`
}

type updateLogRequest struct {
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
	Version         int    `json:"version" binding:"required"`
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/logs")
	{
		logs.POST("", h.Create)
		logs.GET("", h.ListByRange)
		logs.GET("/sync", h.Sync)
		logs.GET("/:id", h.Get)
		logs.PUT("/:id", h.Update)
		logs.DELETE("/:id", h.Delete)
	}
}

func (h *LogHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}
	familyID, _ := middleware.GetFamilyID(c)

	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	log, err := h.svc.Create(c.Request.Context(), services.CreateLogInput{
		ActivityID:      req.ActivityID,
		UserID:          userID,
		FamilyID:        familyID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		LoggedAt:        req.LoggedAt,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListByRange returns the user's logs between from and to (YYYY-MM-DD,
// inclusive). Defaults to the last 7 days.
func (h *LogHandler) ListByRange(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -6).Truncate(24 * time.Hour)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, expected YYYY-MM-DD"})
			return
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from cannot be after to"})
		return
	}

	logs, err := h.svc.ListByDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *LogHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	log, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *LogHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	log, err := h.svc.Update(c.Request.Context(), services.UpdateLogInput{
		ID:              c.Param("id"),
		UserID:          userID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Version:         req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *LogHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LogHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	lastSyncStr := c.Query("last_sync")
	var lastSync time.Time
	var err error

	if lastSyncStr != "" {
		lastSync, err = time.Parse(time.RFC3339, lastSyncStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_sync format, use RFC3339"})
			return
		}
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}
