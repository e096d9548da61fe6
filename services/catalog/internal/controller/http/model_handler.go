package http

import (
	"errors"
	"net/http"
	"strings"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/pkg/validation"
	"hookr/services/catalog/internal/entity"
	"hookr/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20

type ModelHandler struct {
	modelUseCase usecase.ModelUseCase
}

func NewModelHandler(modelUseCase usecase.ModelUseCase) *ModelHandler {
	return &ModelHandler{modelUseCase: modelUseCase}
}

type ListModelsQuery struct {
	Featured    *bool    `form:"featured"`
	Verified    *bool    `form:"verified"`
	Tags        string   `form:"tags"`
	MinRating   float64  `form:"min_rating" binding:"omitempty,min=0,max=5"`
	MaxPrice    int64    `form:"max_price" binding:"omitempty,min=0"`
	Lat         *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng         *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
	MaxDistance float64  `form:"max_distance" binding:"omitempty,min=0"`
	Sort        string   `form:"sort" binding:"omitempty,oneof=rating new price"`
}

type LocationQuery struct {
	Lat *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
}

func (q LocationQuery) point() *entity.Point {
	if q.Lat == nil || q.Lng == nil {
		return nil
	}
	return &entity.Point{Lat: *q.Lat, Lng: *q.Lng}
}

type ModelRequest struct {
	Name             *string  `json:"name" binding:"omitempty,max=100"`
	Age              *int     `json:"age" binding:"omitempty,min=18,max=99"`
	Bio              *string  `json:"bio" binding:"omitempty,max=2000"`
	PriceCents       *int64   `json:"price_cents" binding:"omitempty,min=0"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	ProfileImageURL  *string  `json:"profile_image_url" binding:"omitempty,url"`
	FallbackImageURL *string  `json:"fallback_image_url" binding:"omitempty,url"`
}

func (r ModelRequest) input() entity.ModelInput {
	return entity.ModelInput{
		Name:             r.Name,
		Age:              r.Age,
		Bio:              r.Bio,
		PriceCents:       r.PriceCents,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		ProfileImageURL:  r.ProfileImageURL,
		FallbackImageURL: r.FallbackImageURL,
	}
}

type TagsRequest struct {
	Tags []string `json:"tags" binding:"required,dive,max=50"`
}

type AvailabilityRequest struct {
	Days []DayRequest `json:"days" binding:"required,min=1,max=7,dive"`
}

type DayRequest struct {
	Day       string `json:"day" binding:"required,weekday"`
	Available bool   `json:"available"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrApprovalRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrModelExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrTooManyTags),
		errors.Is(err, entity.ErrInvalidDay),
		errors.Is(err, entity.ErrInvalidImage),
		errors.Is(err, entity.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListModels godoc
// @Summary      Search models
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        featured     query bool   false "Featured only"
// @Param        verified     query bool   false "Verified only"
// @Param        tags         query string false "Comma separated tags, any match"
// @Param        min_rating   query number false "Minimum rating"
// @Param        max_price    query int    false "Maximum hourly price in cents"
// @Param        lat          query number false "Viewer latitude"
// @Param        lng          query number false "Viewer longitude"
// @Param        max_distance query number false "Radius in miles"
// @Param        sort         query string false "rating, new or price"
// @Param        limit        query int    false "Page size"
// @Param        offset       query int    false "Offset"
// @Success      200  {array}   entity.Model
// @Failure      400  {object}  map[string]string
// @Router       /models [get]
func (h *ModelHandler) ListModels(c *gin.Context) {
	var q ListModelsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page := pagination.FromQuery(c, pagination.DefaultLimit)

	f := entity.Filter{
		Featured:      q.Featured,
		Verified:      q.Verified,
		Tags:          validation.NormalizeTags(strings.Split(q.Tags, ",")),
		MinRating:     q.MinRating,
		MaxPriceCents: q.MaxPrice,
		Origin:        LocationQuery{Lat: q.Lat, Lng: q.Lng}.point(),
		MaxDistance:   q.MaxDistance,
		Sort:          entity.Sort(q.Sort),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}

	ms, err := h.modelUseCase.ListModels(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ms)
}

// Browse godoc
// @Summary      Discovery categories
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        lat   query number false "Viewer latitude"
// @Param        lng   query number false "Viewer longitude"
// @Param        limit query int    false "Models per category" default(8)
// @Success      200  {object}  entity.Browse
// @Router       /models/browse [get]
func (h *ModelHandler) Browse(c *gin.Context) {
	var q LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page := pagination.FromQuery(c, 8)

	b, err := h.modelUseCase.Browse(c.Request.Context(), q.point(), page.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// GetModel godoc
// @Summary      Get a model
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string true  "Model ID"
// @Param        lat query number false "Viewer latitude"
// @Param        lng query number false "Viewer longitude"
// @Success      200  {object}  entity.Model
// @Failure      404  {object}  map[string]string
// @Router       /models/{id} [get]
func (h *ModelHandler) GetModel(c *gin.Context) {
	var q LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.modelUseCase.GetModel(c.Request.Context(), c.Param("id"), q.point())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// GetMyModel godoc
// @Summary      Get the caller's model
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Model
// @Failure      404  {object}  map[string]string
// @Router       /models/me [get]
func (h *ModelHandler) GetMyModel(c *gin.Context) {
	m, err := h.modelUseCase.GetMyModel(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// CreateModel godoc
// @Summary      Create the caller's model profile
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ModelRequest true "Model profile"
// @Success      201  {object}  entity.Model
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /models [post]
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req ModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.modelUseCase.CreateModel(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// UpdateMyModel godoc
// @Summary      Update the caller's model profile
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ModelRequest true "Fields to change"
// @Success      200  {object}  entity.Model
// @Router       /models/me [put]
func (h *ModelHandler) UpdateMyModel(c *gin.Context) {
	var req ModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.modelUseCase.UpdateMyModel(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// SetTags godoc
// @Summary      Replace the caller's model tags
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TagsRequest true "Tags"
// @Success      200  {object}  entity.Model
// @Router       /models/me/tags [put]
func (h *ModelHandler) SetTags(c *gin.Context) {
	var req TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.modelUseCase.SetMyTags(c.Request.Context(), middleware.UserID(c), req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// SetAvailability godoc
// @Summary      Set weekly availability
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AvailabilityRequest true "Days"
// @Success      200  {object}  entity.Model
// @Router       /models/me/availability [put]
func (h *ModelHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days := make([]entity.Availability, len(req.Days))
	for i, d := range req.Days {
		days[i] = entity.Availability{Day: d.Day, Available: d.Available}
	}

	m, err := h.modelUseCase.SetMyAvailability(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// UploadImage godoc
// @Summary      Upload the model profile image
// @Tags         models
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Image file"
// @Success      200  {object}  entity.Model
// @Router       /models/me/image [post]
func (h *ModelHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be 10MB or smaller"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer src.Close()

	m, err := h.modelUseCase.UploadImage(c.Request.Context(), middleware.UserID(c), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// Services godoc
// @Summary      Price list for a model
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Model ID"
// @Success      200  {array}   entity.ServiceOffer
// @Failure      404  {object}  map[string]string
// @Router       /models/{id}/services [get]
func (h *ModelHandler) Services(c *gin.Context) {
	offers, err := h.modelUseCase.Services(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}
