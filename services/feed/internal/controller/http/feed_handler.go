package http

import (
	"net/http"

	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/feed/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
	logger      *logger.Logger
}

func NewFeedHandler(feedUseCase usecase.FeedUseCase, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
		logger:      logger,
	}
}

// GetFeed godoc
// @Summary      Get personalized feed
// @Description  Posts from subscribed models first, then other posts, each newest first. Premium media is locked without access.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  entity.Page
// @Router       /feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	result, err := h.feedUseCase.GetFeed(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		h.logger.Error("Failed to get feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetVideoFeed godoc
// @Summary      Vertical video feed
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  entity.Page
// @Router       /feed/videos [get]
func (h *FeedHandler) GetVideoFeed(c *gin.Context) {
	page := pagination.FromQuery(c, 10)
	result, err := h.feedUseCase.GetVideoFeed(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		h.logger.Error("Failed to get video feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Explore godoc
// @Summary      Trending posts
// @Description  Posts from the last 30 days ordered by likes, optionally filtered by tag.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        tag    query string false "Tag"
// @Param        limit  query int    false "Number of posts to return (max 100)"
// @Param        offset query int    false "Offset for pagination"
// @Success      200  {object}  entity.Page
// @Router       /feed/explore [get]
func (h *FeedHandler) Explore(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	result, err := h.feedUseCase.Explore(c.Request.Context(), middleware.UserID(c), c.Query("tag"), page.Limit, page.Offset)
	if err != nil {
		h.logger.Error("Failed to get explore feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
