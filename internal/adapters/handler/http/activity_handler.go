package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidsbalance/balance-engine/internal/adapters/handler/http/middleware"
	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/services"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		svc: svc,
	}
}

type createActivityRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Coefficient float64 `json:"coefficient"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
}

type updateActivityRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Coefficient float64 `json:"coefficient"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Version     int     `json:"version"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/activities")
	{
		activities.GET("", h.List)
		activities.GET("/sync", h.Sync)
		activities.GET("/:id", h.Get)

		parentOnly := activities.Group("", middleware.RequireParent())
		{
			parentOnly.POST("", h.Create)
			parentOnly.PUT("/:id", h.Update)
			parentOnly.POST("/:id/archive", h.Archive)
			parentOnly.POST("/:id/restore", h.Restore)
			parentOnly.POST("/:id/recalculate", h.Recalculate)
			parentOnly.POST("/seed", h.SeedPresets)
		}
	}
}

func (h *ActivityHandler) Create(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.svc.Create(c.Request.Context(), services.CreateActivityInput{
		FamilyID:    familyID,
		Name:        req.Name,
		Category:    req.Category,
		Coefficient: req.Coefficient,
		Icon:        req.Icon,
		Color:       req.Color,
		CreatedBy:   c.GetString(middleware.ContextRoleKey),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

func (h *ActivityHandler) List(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))

	list, err := h.svc.ListByFamilyID(c.Request.Context(), familyID, includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ActivityHandler) Get(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	activity, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), familyID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) Sync(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
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

	deltas, err := h.svc.GetDelta(c.Request.Context(), familyID, lastSync)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}

func (h *ActivityHandler) Update(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.svc.Update(c.Request.Context(), services.UpdateActivityInput{
		ID:          c.Param("id"),
		FamilyID:    familyID,
		Name:        req.Name,
		Category:    req.Category,
		Coefficient: req.Coefficient,
		Icon:        req.Icon,
		Color:       req.Color,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) Archive(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	if err := h.svc.Archive(c.Request.Context(), c.Param("id"), familyID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ActivityHandler) Restore(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	if err := h.svc.Restore(c.Request.Context(), c.Param("id"), familyID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Recalculate rewrites historical quality scores against the activity's
// current coefficient. Explicit opt-in: a plain catalog edit never does
// this.
func (h *ActivityHandler) Recalculate(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	updated, err := h.svc.RecalculateLogs(c.Request.Context(), c.Param("id"), familyID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated_logs": updated})
}

func (h *ActivityHandler) SeedPresets(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	created, err := h.svc.SeedPresets(c.Request.Context(), familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrActivityNotFound) || errors.Is(err, domain.ErrLogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrActivityConflict) || errors.Is(err, domain.ErrLogConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidCoefficient),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrActivityNameEmpty),
		errors.Is(err, domain.ErrActivityNameTooLong),
		errors.Is(err, domain.ErrActivityArchived):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
