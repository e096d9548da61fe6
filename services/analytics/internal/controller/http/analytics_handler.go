package http

import (
	"errors"
	"net/http"
	"strconv"

	"hookr/pkg/middleware"
	"hookr/services/analytics/internal/entity"
	"hookr/services/analytics/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsUseCase usecase.AnalyticsUseCase
}

func NewAnalyticsHandler(analyticsUseCase usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUseCase: analyticsUseCase}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetCreatorStats godoc
// @Summary      Get creator statistics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CreatorStats
// @Failure      403  {object}  map[string]string
// @Router       /analytics/me [get]
func (h *AnalyticsHandler) GetCreatorStats(c *gin.Context) {
	stats, err := h.analyticsUseCase.GetCreatorStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetPostStats godoc
// @Summary      Get statistics for one of the caller's posts
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.PostStats
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /analytics/posts/{id} [get]
func (h *AnalyticsHandler) GetPostStats(c *gin.Context) {
	stats, err := h.analyticsUseCase.GetPostStats(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetEarnings godoc
// @Summary      Daily earnings
// @Description  Income from subscriptions and tips per UTC day.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days (1-365, default 30)"
// @Success      200  {object}  entity.Earnings
// @Failure      400  {object}  map[string]string
// @Router       /analytics/earnings [get]
func (h *AnalyticsHandler) GetEarnings(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(entity.DefaultEarningsDays)))
	if err != nil {
		respondError(c, entity.ErrInvalidDays)
		return
	}

	earnings, err := h.analyticsUseCase.GetEarnings(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, earnings)
}
