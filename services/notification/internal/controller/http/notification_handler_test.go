package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/pkg/queue"
	"hookr/services/notification/internal/entity"
	"hookr/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationUseCase struct {
	mock.Mock
}

var _ usecase.NotificationUseCase = (*MockNotificationUseCase)(nil)

func (m *MockNotificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page), args.Error(1)
}

func (m *MockNotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockNotificationUseCase) DeleteNotification(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationUseCase) GetSettings(ctx context.Context, userID, modelID string) (*entity.Settings, error) {
	args := m.Called(ctx, userID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockNotificationUseCase) UpdateSettings(ctx context.Context, userID, modelID string, enabled bool) (*entity.Settings, error) {
	args := m.Called(ctx, userID, modelID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockNotificationUseCase) Send(ctx context.Context, n *entity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationUseCase) HandleTask(ctx context.Context, task queue.Task) error {
	return m.Called(ctx, task).Error(0)
}

type stubQueue struct {
	length int
	err    error
}

func (s stubQueue) QueueLength() (int, error) { return s.length, s.err }

func setupRouter(uc usecase.NotificationUseCase, q QueueInspector) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewNotificationHandler(uc, nil, q, jwt.NewService("test-secret"), logger.NewWithWriter(io.Discard, "error"))
	r := gin.New()
	r.GET("/ws", h.HandleWebSocket)

	protected := r.Group("")
	protected.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	protected.GET("/notifications", h.GetNotifications)
	protected.GET("/notifications/unread-count", h.UnreadCount)
	protected.POST("/notifications/read", h.MarkAllRead)
	protected.DELETE("/notifications/:id", h.DeleteNotification)
	protected.PUT("/notifications/settings/:model_id", h.UpdateSettings)
	protected.GET("/admin/notifications/queue", h.QueueStatus)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetNotifications(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "user-1", 50, 0).Return(&entity.Page{
		Notifications: []*entity.Notification{{ID: "n-1", Type: entity.TypeLike, Title: "New Like!"}},
		Total:         1,
		Unread:        1,
	}, nil)
	r := setupRouter(uc, nil)

	w := do(r, "GET", "/notifications", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":1`)
	assert.Contains(t, w.Body.String(), `"read":false`)
	uc.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("UnreadCount", mock.Anything, "user-1").Return(int64(3), nil)
	r := setupRouter(uc, nil)

	w := do(r, "GET", "/notifications/unread-count", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread":3}`, w.Body.String())
}

func TestMarkAllRead(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("MarkAllRead", mock.Anything, "user-1").Return(nil)
	r := setupRouter(uc, nil)

	assert.Equal(t, http.StatusNoContent, do(r, "POST", "/notifications/read", "").Code)
}

func TestDeleteNotification_NotFound(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("DeleteNotification", mock.Anything, "user-1", "missing").Return(entity.ErrNotificationNotFound)
	r := setupRouter(uc, nil)

	w := do(r, "DELETE", "/notifications/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Notification not found"}`, w.Body.String())
}

func TestUpdateSettings(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("UpdateSettings", mock.Anything, "user-1", "model-1", false).Return(&entity.Settings{ModelID: "model-1", Enabled: false}, nil)
	uc.On("UpdateSettings", mock.Anything, "user-1", "ghost", true).Return(nil, entity.ErrModelNotFound)
	r := setupRouter(uc, nil)

	w := do(r, "PUT", "/notifications/settings/model-1", `{"enabled":false}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"model_id":"model-1","enabled":false}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(r, "PUT", "/notifications/settings/ghost", `{"enabled":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "PUT", "/notifications/settings/model-1", `{}`).Code)
}

func TestQueueStatus(t *testing.T) {
	uc := new(MockNotificationUseCase)

	w := do(setupRouter(uc, stubQueue{length: 7}), "GET", "/admin/notifications/queue", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"queue_length":7}`, w.Body.String())

	w = do(setupRouter(uc, stubQueue{err: errors.New("channel closed")}), "GET", "/admin/notifications/queue", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(setupRouter(uc, nil), "GET", "/admin/notifications/queue", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleWebSocket_RequiresToken(t *testing.T) {
	r := setupRouter(new(MockNotificationUseCase), nil)

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/ws", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/ws?token=garbage", "").Code)
}
