package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/middleware"
	"hookr/services/analytics/internal/entity"
	"hookr/services/analytics/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAnalyticsUseCase struct {
	mock.Mock
}

var _ usecase.AnalyticsUseCase = (*MockAnalyticsUseCase)(nil)

func (m *MockAnalyticsUseCase) GetCreatorStats(ctx context.Context, creatorID string) (*entity.CreatorStats, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreatorStats), args.Error(1)
}

func (m *MockAnalyticsUseCase) GetPostStats(ctx context.Context, postID, creatorID string) (*entity.PostStats, error) {
	args := m.Called(ctx, postID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostStats), args.Error(1)
}

func (m *MockAnalyticsUseCase) GetEarnings(ctx context.Context, creatorID string, days int) (*entity.Earnings, error) {
	args := m.Called(ctx, creatorID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Earnings), args.Error(1)
}

func setupRouter(uc usecase.AnalyticsUseCase, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAnalyticsHandler(uc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "creator-1")
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	})
	r.Use(middleware.RequireRole("creator"))
	r.GET("/analytics/me", h.GetCreatorStats)
	r.GET("/analytics/posts/:id", h.GetPostStats)
	r.GET("/analytics/earnings", h.GetEarnings)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetCreatorStatsHandler(t *testing.T) {
	uc := new(MockAnalyticsUseCase)
	uc.On("GetCreatorStats", mock.Anything, "creator-1").Return(&entity.CreatorStats{TotalPosts: 3, TotalEarningsCents: 4500}, nil)

	w := get(setupRouter(uc, "creator"), "/analytics/me")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_earnings_cents":4500`)

	assert.Equal(t, http.StatusForbidden, get(setupRouter(uc, "viewer"), "/analytics/me").Code)
	uc.AssertNumberOfCalls(t, "GetCreatorStats", 1)
}

func TestGetPostStatsHandler(t *testing.T) {
	uc := new(MockAnalyticsUseCase)
	uc.On("GetPostStats", mock.Anything, "p-1", "creator-1").Return(&entity.PostStats{PostID: "p-1", Views: 9}, nil)
	uc.On("GetPostStats", mock.Anything, "p-2", "creator-1").Return(nil, entity.ErrForbidden)
	uc.On("GetPostStats", mock.Anything, "p-3", "creator-1").Return(nil, entity.ErrPostNotFound)
	r := setupRouter(uc, "creator")

	assert.Equal(t, http.StatusOK, get(r, "/analytics/posts/p-1").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/analytics/posts/p-2").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/analytics/posts/p-3").Code)
}

func TestGetEarningsHandler(t *testing.T) {
	uc := new(MockAnalyticsUseCase)
	uc.On("GetEarnings", mock.Anything, "creator-1", 30).Return(&entity.Earnings{Days: 30}, nil)
	uc.On("GetEarnings", mock.Anything, "creator-1", 7).Return(&entity.Earnings{Days: 7}, nil)
	uc.On("GetEarnings", mock.Anything, "creator-1", 0).Return(nil, entity.ErrInvalidDays)
	r := setupRouter(uc, "creator")

	assert.Contains(t, get(r, "/analytics/earnings").Body.String(), `"days":30`)
	assert.Contains(t, get(r, "/analytics/earnings?days=7").Body.String(), `"days":7`)
	assert.Equal(t, http.StatusBadRequest, get(r, "/analytics/earnings?days=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/analytics/earnings?days=week").Code)
}
