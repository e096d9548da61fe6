package http

import (
	"context"
	"errors"
	"net/http"

	"hookr/pkg/pagination"
	"hookr/services/moderation/internal/entity"
	"hookr/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationUseCase usecase.ModerationUseCase
}

func NewModerationHandler(moderationUseCase usecase.ModerationUseCase) *ModerationHandler {
	return &ModerationHandler{moderationUseCase: moderationUseCase}
}

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, entity.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListApplications godoc
// @Summary      List creator applications
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, approved or rejected" default(pending)
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Offset"
// @Success      200  {array}   entity.Application
// @Failure      403  {object}  map[string]string
// @Router       /admin/applications [get]
func (h *ModerationHandler) ListApplications(c *gin.Context) {
	page := pagination.FromQuery(c, 20)
	apps, err := h.moderationUseCase.ListApplications(c.Request.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// Approve godoc
// @Summary      Approve a creator application
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "Applicant ID"
// @Param        request body DecisionRequest false "Reviewer comment"
// @Success      200  {object}  entity.Application
// @Failure      409  {object}  map[string]string
// @Router       /admin/applications/{user_id}/approve [post]
func (h *ModerationHandler) Approve(c *gin.Context) {
	h.decide(c, h.moderationUseCase.Approve)
}

// Reject godoc
// @Summary      Reject a creator application
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "Applicant ID"
// @Param        request body DecisionRequest false "Reviewer comment"
// @Success      200  {object}  entity.Application
// @Failure      409  {object}  map[string]string
// @Router       /admin/applications/{user_id}/reject [post]
func (h *ModerationHandler) Reject(c *gin.Context) {
	h.decide(c, h.moderationUseCase.Reject)
}

func (h *ModerationHandler) decide(c *gin.Context, fn func(ctx context.Context, userID, comment string) (*entity.Application, error)) {
	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	app, err := fn(c.Request.Context(), c.Param("user_id"), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Activate godoc
// @Summary      Reactivate a user account
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{user_id}/activate [post]
func (h *ModerationHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate godoc
// @Summary      Deactivate a user account
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{user_id}/deactivate [post]
func (h *ModerationHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ModerationHandler) setActive(c *gin.Context, active bool) {
	if err := h.moderationUseCase.SetUserActive(c.Request.Context(), c.Param("user_id"), active); err != nil {
		respondError(c, err)
		return
	}

	msg := "User deactivated"
	if active {
		msg = "User activated"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// TakeDownPost godoc
// @Summary      Remove a post
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{post_id} [delete]
func (h *ModerationHandler) TakeDownPost(c *gin.Context) {
	if err := h.moderationUseCase.TakeDownPost(c.Request.Context(), c.Param("post_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
}

// Stats godoc
// @Summary      Platform counters
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Stats
// @Router       /admin/stats [get]
func (h *ModerationHandler) Stats(c *gin.Context) {
	stats, err := h.moderationUseCase.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
