package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/post/internal/entity"
	"hookr/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxMediaSize = 100 << 20

type PostHandler struct {
	postUseCase usecase.PostUseCase
}

func NewPostHandler(postUseCase usecase.PostUseCase) *PostHandler {
	return &PostHandler{postUseCase: postUseCase}
}

type ListPostsQuery struct {
	ModelID   string `form:"model_id"`
	IsPremium *bool  `form:"is_premium"`
	MediaType string `form:"media_type" binding:"omitempty,media_type"`
}

type UpdatePostRequest struct {
	Content   *string   `json:"content" binding:"omitempty,max=5000"`
	IsPremium *bool     `json:"is_premium"`
	Tags      *[]string `json:"tags" binding:"omitempty,dive,max=50"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, entity.ErrForbidden), errors.Is(err, entity.ErrModelRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUnsupportedMedia), errors.Is(err, entity.ErrTooManyTags):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// splitTags accepts repeated tags fields as well as comma separated values.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Uploads an image or video for the caller's model
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        media      formData file   true  "Image or video"
// @Param        content    formData string false "Caption"
// @Param        is_premium formData bool   false "Subscribers only"
// @Param        tags       formData string false "Comma separated tags"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Media file is required"})
		return
	}
	if file.Size > maxMediaSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Media must be 100MB or smaller"})
		return
	}

	isPremium := false
	if raw := c.PostForm("is_premium"); raw != "" {
		isPremium, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_premium must be a boolean"})
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer src.Close()

	post, err := h.postUseCase.CreatePost(c.Request.Context(), middleware.UserID(c), entity.NewPost{
		Content:     c.PostForm("content"),
		IsPremium:   isPremium,
		Tags:        splitTags(c.PostFormArray("tags")),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Media:       src,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get a post
// @Description  Premium posts come back locked, without media_url, unless the caller owns them or subscribes
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        model_id   query string false "Model ID"
// @Param        is_premium query bool   false "Premium filter"
// @Param        media_type query string false "image or video"
// @Param        limit      query int    false "Page size"
// @Param        offset     query int    false "Offset"
// @Success      200  {array}   entity.Post
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var q ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page := pagination.FromQuery(c, pagination.DefaultLimit)

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), middleware.UserID(c), entity.ListFilter{
		ModelID:   q.ModelID,
		IsPremium: q.IsPremium,
		MediaType: entity.MediaType(q.MediaType),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// UpdatePost godoc
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string            true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to change"
// @Success      200  {object}  entity.Post
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.UpdatePost(c.Request.Context(), c.Param("id"), middleware.UserID(c), entity.PostUpdate{
		Content:   req.Content,
		IsPremium: req.IsPremium,
		Tags:      req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.DeletePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// RecordView godoc
// @Summary      Count a view
// @Description  Counted once per user and post every 24 hours
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]bool
// @Router       /posts/{id}/view [post]
func (h *PostHandler) RecordView(c *gin.Context) {
	counted, err := h.postUseCase.RecordView(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counted": counted})
}
