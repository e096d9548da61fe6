package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/services/feed/internal/entity"
	"hookr/services/feed/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFeedUseCase struct {
	mock.Mock
}

var _ usecase.FeedUseCase = (*MockFeedUseCase)(nil)

func (m *MockFeedUseCase) GetFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page), args.Error(1)
}

func (m *MockFeedUseCase) GetVideoFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page), args.Error(1)
}

func (m *MockFeedUseCase) Explore(ctx context.Context, userID, tag string, limit, offset int) (*entity.Page, error) {
	args := m.Called(ctx, userID, tag, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page), args.Error(1)
}

func setupRouter(uc usecase.FeedUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewFeedHandler(uc, logger.NewWithWriter(io.Discard, "error"))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	r.GET("/feed", h.GetFeed)
	r.GET("/feed/videos", h.GetVideoFeed)
	r.GET("/feed/explore", h.Explore)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetFeedHandler(t *testing.T) {
	uc := new(MockFeedUseCase)
	uc.On("GetFeed", mock.Anything, "user-1", 5, 10).
		Return(&entity.Page{Posts: []*entity.Post{{ID: "p-1", Locked: true}}, Count: 1, Offset: 10}, nil)
	r := setupRouter(uc)

	w := get(r, "/feed?limit=5&offset=10")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"locked":true`)
	assert.Contains(t, w.Body.String(), `"offset":10`)
}

func TestGetVideoFeedHandler_Defaults(t *testing.T) {
	uc := new(MockFeedUseCase)
	uc.On("GetVideoFeed", mock.Anything, "user-1", 10, 0).Return(&entity.Page{Posts: []*entity.Post{}}, nil)
	r := setupRouter(uc)

	assert.Equal(t, http.StatusOK, get(r, "/feed/videos?limit=abc").Code)
	uc.AssertExpectations(t)
}

func TestExploreHandler(t *testing.T) {
	uc := new(MockFeedUseCase)
	uc.On("Explore", mock.Anything, "user-1", "beach", 20, 0).Return(&entity.Page{Posts: []*entity.Post{}}, nil)
	uc.On("Explore", mock.Anything, "user-1", "", 20, 0).Return(nil, errors.New("db down"))
	r := setupRouter(uc)

	assert.Equal(t, http.StatusOK, get(r, "/feed/explore?tag=beach").Code)

	w := get(r, "/feed/explore")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch feed"}`, w.Body.String())
}
