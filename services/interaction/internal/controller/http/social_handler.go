package http

import (
	"net/http"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/interaction/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	socialUseCase usecase.SocialUseCase
}

func NewSocialHandler(socialUseCase usecase.SocialUseCase) *SocialHandler {
	return &SocialHandler{socialUseCase: socialUseCase}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"max=2000"`
}

// AddFavorite godoc
// @Summary      Add a model to favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      201  {object}  entity.FavoriteStatus
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /favorites/{model_id} [post]
func (h *SocialHandler) AddFavorite(c *gin.Context) {
	if err := h.socialUseCase.AddFavorite(c.Request.Context(), middleware.UserID(c), c.Param("model_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": true})
}

// RemoveFavorite godoc
// @Summary      Remove a model from favorites
// @Tags         favorites
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /favorites/{model_id} [delete]
func (h *SocialHandler) RemoveFavorite(c *gin.Context) {
	if err := h.socialUseCase.RemoveFavorite(c.Request.Context(), middleware.UserID(c), c.Param("model_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleFavorite godoc
// @Summary      Toggle a favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      200  {object}  entity.FavoriteStatus
// @Router       /favorites/{model_id}/toggle [post]
func (h *SocialHandler) ToggleFavorite(c *gin.Context) {
	status, err := h.socialUseCase.ToggleFavorite(c.Request.Context(), middleware.UserID(c), c.Param("model_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetFavorite godoc
// @Summary      Whether a model is in the caller's favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      200  {object}  entity.FavoriteStatus
// @Router       /favorites/{model_id} [get]
func (h *SocialHandler) GetFavorite(c *gin.Context) {
	status, err := h.socialUseCase.GetFavorite(c.Request.Context(), middleware.UserID(c), c.Param("model_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListFavorites godoc
// @Summary      Favorite models of the caller
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}   entity.FavoriteModel
// @Router       /favorites [get]
func (h *SocialHandler) ListFavorites(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	favorites, err := h.socialUseCase.ListFavorites(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// CreateReview godoc
// @Summary      Review a model
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string        true "Model ID"
// @Param        request body ReviewRequest true "Review"
// @Success      201  {object}  entity.Review
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /models/{id}/reviews [post]
func (h *SocialHandler) CreateReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.socialUseCase.CreateReview(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Rating, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews godoc
// @Summary      Reviews of a model, newest first
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "Model ID"
// @Param        limit  query int    false "Page size"
// @Param        offset query int    false "Offset"
// @Success      200  {array}   entity.Review
// @Router       /models/{id}/reviews [get]
func (h *SocialHandler) ListReviews(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	reviews, err := h.socialUseCase.ListReviews(c.Request.Context(), c.Param("id"), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
