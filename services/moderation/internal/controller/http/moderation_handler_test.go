package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/services/moderation/internal/entity"
	"hookr/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockModerationUseCase struct {
	mock.Mock
}

var _ usecase.ModerationUseCase = (*MockModerationUseCase)(nil)

func (m *MockModerationUseCase) ListApplications(ctx context.Context, status string, limit, offset int) ([]*entity.Application, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Application), args.Error(1)
}

func (m *MockModerationUseCase) Approve(ctx context.Context, userID, comment string) (*entity.Application, error) {
	args := m.Called(ctx, userID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Application), args.Error(1)
}

func (m *MockModerationUseCase) Reject(ctx context.Context, userID, comment string) (*entity.Application, error) {
	args := m.Called(ctx, userID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Application), args.Error(1)
}

func (m *MockModerationUseCase) SetUserActive(ctx context.Context, userID string, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

func (m *MockModerationUseCase) TakeDownPost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockModerationUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stats), args.Error(1)
}

func setupRouter(uc usecase.ModerationUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewModerationHandler(uc)
	r := gin.New()
	r.GET("/admin/applications", h.ListApplications)
	r.POST("/admin/applications/:user_id/approve", h.Approve)
	r.POST("/admin/applications/:user_id/reject", h.Reject)
	r.POST("/admin/users/:user_id/activate", h.Activate)
	r.POST("/admin/users/:user_id/deactivate", h.Deactivate)
	r.DELETE("/admin/posts/:post_id", h.TakeDownPost)
	r.GET("/admin/stats", h.Stats)
	return r
}

func TestListApplications(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("ListApplications", mock.Anything, "", 20, 0).
		Return([]*entity.Application{{UserID: "u1", Status: "pending"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/applications", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	uc.AssertExpectations(t)
}

func TestListApplications_BadStatus(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("ListApplications", mock.Anything, "weird", 20, 0).Return(nil, entity.ErrInvalidStatus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/applications?status=weird", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprove(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("Approve", mock.Anything, "u1", "looks good").
		Return(&entity.Application{UserID: "u1", Status: "approved"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/applications/u1/approve", bytes.NewBufferString(`{"comment":"looks good"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

func TestReject_NotPending(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("Reject", mock.Anything, "u1", "").Return(nil, entity.ErrNotPending)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/applications/u1/reject", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeactivate(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("SetUserActive", mock.Anything, "u2", false).Return(nil)
	uc.On("SetUserActive", mock.Anything, "ghost", true).Return(entity.ErrUserNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/users/u2/deactivate", nil)
	setupRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deactivated"}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/admin/users/ghost/activate", nil)
	setupRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTakeDownPost(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("TakeDownPost", mock.Anything, "p1").Return(nil)
	uc.On("TakeDownPost", mock.Anything, "p2").Return(entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/admin/posts/p1", nil)
	setupRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/admin/posts/p2", nil)
	setupRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	uc := new(MockModerationUseCase)
	uc.On("Stats", mock.Anything).Return(&entity.Stats{Users: 10, Creators: 3, PendingApplications: 2, Posts: 40}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/stats", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":10,"creators":3,"pending_applications":2,"posts":40}`, w.Body.String())
}
