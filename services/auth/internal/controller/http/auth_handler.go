package http

import (
	"errors"
	"net/http"

	"hookr/pkg/middleware"
	"hookr/services/auth/internal/entity"
	"hookr/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Gender   *string `json:"gender" binding:"omitempty,max=20"`
}

type CreatorApplicationRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrEmailTaken),
		errors.Is(err, entity.ErrUsernameTaken),
		errors.Is(err, entity.ErrApplicationPending),
		errors.Is(err, entity.ErrAlreadyCreator):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrAccountDeactivated):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, entity.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authUseCase.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary      Login user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  AuthResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me godoc
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.GetMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200  {object}  entity.User
// @Router       /me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authUseCase.UpdateProfile(c.Request.Context(), middleware.UserID(c), entity.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Gender:   req.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image file"
// @Success      200  {object}  entity.User
// @Router       /me/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar must be 5MB or smaller"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer src.Close()

	user, err := h.authUseCase.UploadAvatar(c.Request.Context(), middleware.UserID(c), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser godoc
// @Summary      Get public user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.authUseCase.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ApplyForCreator godoc
// @Summary      Apply to become a creator
// @Tags         creator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatorApplicationRequest false "Application note"
// @Success      201  {object}  entity.CreatorApplication
// @Failure      409  {object}  map[string]string
// @Router       /me/creator-application [post]
func (h *AuthHandler) ApplyForCreator(c *gin.Context) {
	var req CreatorApplicationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	app, err := h.authUseCase.ApplyForCreator(c.Request.Context(), middleware.UserID(c), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetApplication godoc
// @Summary      Get own creator application
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CreatorApplication
// @Router       /me/creator-application [get]
func (h *AuthHandler) GetApplication(c *gin.Context) {
	app, err := h.authUseCase.GetApplication(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
