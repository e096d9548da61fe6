package http

import (
	"context"
	"errors"
	"net/http"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/pkg/ws"
	"hookr/services/notification/internal/entity"
	"hookr/services/notification/internal/repo/inbox"
	"hookr/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// QueueInspector reports the notification backlog.
type QueueInspector interface {
	QueueLength() (int, error)
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	redisClient         *redis.Client
	queue               QueueInspector
	jwtService          *jwt.Service
	logger              *logger.Logger
}

func NewNotificationHandler(
	notificationUseCase usecase.NotificationUseCase,
	redisClient *redis.Client,
	queue QueueInspector,
	jwtService *jwt.Service,
	logger *logger.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		redisClient:         redisClient,
		queue:               queue,
		jwtService:          jwtService,
		logger:              logger,
	}
}

type SettingsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
	case errors.Is(err, entity.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetNotifications godoc
// @Summary      Get user notifications
// @Description  Newest first. Each item carries a read flag computed from the last mark-read.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  entity.Page
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	page := pagination.FromQuery(c, 50)
	result, err := h.notificationUseCase.GetNotifications(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnreadCount godoc
// @Summary      Number of unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationUseCase.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkAllRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Router       /notifications/read [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationUseCase.MarkAllRead(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationUseCase.DeleteNotification(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSettings godoc
// @Summary      New-post notification setting for a model
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      200  {object}  entity.Settings
// @Router       /notifications/settings/{model_id} [get]
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	settings, err := h.notificationUseCase.GetSettings(c.Request.Context(), middleware.UserID(c), c.Param("model_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Turn new-post notifications for a model on or off
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string          true "Model ID"
// @Param        request  body SettingsRequest true "Setting"
// @Success      200  {object}  entity.Settings
// @Failure      404  {object}  map[string]string
// @Router       /notifications/settings/{model_id} [put]
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.notificationUseCase.UpdateSettings(c.Request.Context(), middleware.UserID(c), c.Param("model_id"), *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// QueueStatus godoc
// @Summary      Notification queue backlog
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int
// @Failure      503  {object}  map[string]string
// @Router       /admin/notifications/queue [get]
func (h *NotificationHandler) QueueStatus(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue is not available"})
		return
	}
	length, err := h.queue.QueueLength()
	if err != nil {
		h.logger.Error("Failed to get queue length: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue length"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": length})
}

// HandleWebSocket godoc
// @Summary      Live notifications
// @Description  Relays each new notification as a JSON text frame. Send "ping" to receive {"type":"pong"}.
// @Tags         notifications
// @Param        token query string true "JWT"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID, err := ws.Authenticate(c, h.jwtService)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return
	}
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime notifications unavailable"})
		return
	}

	conn, err := ws.Upgrade(c)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ws.Relay(ctx, h.redisClient, conn, h.logger, inbox.Channel(userID)); err != nil {
		h.logger.Error("Failed to subscribe to notifications for %s: %v", userID, err)
		return
	}
	go conn.KeepAlive(ctx)

	h.logger.Info("WebSocket connected for user %s", userID)
	for {
		data, err := conn.Read()
		if err != nil {
			break
		}
		if ws.IsPing(data) {
			if err := conn.WriteJSON(gin.H{"type": "pong"}); err != nil {
				break
			}
		}
	}
	h.logger.Info("WebSocket disconnected for user %s", userID)
}
