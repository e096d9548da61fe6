package http

import (
	"errors"
	"net/http"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/interaction/internal/entity"
	"hookr/services/interaction/internal/usecase"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionUseCase usecase.InteractionUseCase
}

func NewInteractionHandler(interactionUseCase usecase.InteractionUseCase) *InteractionHandler {
	return &InteractionHandler{interactionUseCase: interactionUseCase}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, entity.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	case errors.Is(err, entity.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
	case errors.Is(err, entity.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrAlreadyFavorite), errors.Is(err, entity.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrOwnModel), errors.Is(err, entity.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.LikeStatus
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	status, err := h.interactionUseCase.ToggleLike(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetLikeStatus godoc
// @Summary      Like state and count of a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.LikeStatus
// @Router       /posts/{id}/like [get]
func (h *InteractionHandler) GetLikeStatus(c *gin.Context) {
	status, err := h.interactionUseCase.GetLikeStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetLikedPosts godoc
// @Summary      Posts liked by the caller
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}   entity.LikedPost
// @Router       /me/likes [get]
func (h *InteractionHandler) GetLikedPosts(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	posts, err := h.interactionUseCase.GetLikedPosts(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string         true "Post ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  entity.Comment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *InteractionHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.interactionUseCase.AddComment(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      Comments on a post, newest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "Post ID"
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Offset"
// @Success      200  {array}   entity.Comment
// @Router       /posts/{id}/comments [get]
func (h *InteractionHandler) ListComments(c *gin.Context) {
	page := pagination.FromQuery(c, 50)
	comments, err := h.interactionUseCase.ListComments(c.Request.Context(), c.Param("id"), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Allowed for the comment author and the owner of the post.
// @Tags         comments
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	if err := h.interactionUseCase.DeleteComment(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
