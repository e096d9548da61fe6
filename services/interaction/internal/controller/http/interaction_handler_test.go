package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/middleware"
	"hookr/services/interaction/internal/entity"
	"hookr/services/interaction/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInteractionUseCase struct {
	mock.Mock
}

var _ usecase.InteractionUseCase = (*MockInteractionUseCase)(nil)

func (m *MockInteractionUseCase) ToggleLike(ctx context.Context, userID, postID string) (*entity.LikeStatus, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeStatus), args.Error(1)
}

func (m *MockInteractionUseCase) GetLikeStatus(ctx context.Context, userID, postID string) (*entity.LikeStatus, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeStatus), args.Error(1)
}

func (m *MockInteractionUseCase) GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.LikedPost, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LikedPost), args.Error(1)
}

func (m *MockInteractionUseCase) AddComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error) {
	args := m.Called(ctx, userID, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockInteractionUseCase) ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockInteractionUseCase) DeleteComment(ctx context.Context, userID, commentID string) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func setupInteractionRouter(uc usecase.InteractionUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInteractionHandler(uc)
	r := gin.New()
	r.Use(asUser("user-1"))
	r.POST("/posts/:id/like", h.ToggleLike)
	r.GET("/posts/:id/like", h.GetLikeStatus)
	r.GET("/me/likes", h.GetLikedPosts)
	r.POST("/posts/:id/comments", h.AddComment)
	r.GET("/posts/:id/comments", h.ListComments)
	r.DELETE("/comments/:id", h.DeleteComment)
	return r
}

func TestToggleLikeHandler(t *testing.T) {
	uc := new(MockInteractionUseCase)
	uc.On("ToggleLike", mock.Anything, "user-1", "post-1").Return(&entity.LikeStatus{Liked: true, LikesCount: 3}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/like", nil)
	setupInteractionRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"likes_count":3}`, w.Body.String())
	uc.AssertExpectations(t)
}

func TestToggleLikeHandler_PostNotFound(t *testing.T) {
	uc := new(MockInteractionUseCase)
	uc.On("ToggleLike", mock.Anything, "user-1", "missing").Return(nil, entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/missing/like", nil)
	setupInteractionRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLikedPostsHandler_Pagination(t *testing.T) {
	uc := new(MockInteractionUseCase)
	uc.On("GetLikedPosts", mock.Anything, "user-1", 5, 10).Return([]*entity.LikedPost{{ID: "post-1"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me/likes?limit=5&offset=10", nil)
	setupInteractionRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var posts []entity.LikedPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)
	uc.AssertExpectations(t)
}

func TestAddCommentHandler(t *testing.T) {
	uc := new(MockInteractionUseCase)
	uc.On("AddComment", mock.Anything, "user-1", "post-1", "nice").Return(&entity.Comment{ID: "c-1", Content: "nice"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/comments", bytes.NewBufferString(`{"content":"nice"}`))
	req.Header.Set("Content-Type", "application/json")
	setupInteractionRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	uc.AssertExpectations(t)
}

func TestAddCommentHandler_Validation(t *testing.T) {
	uc := new(MockInteractionUseCase)

	for name, body := range map[string]string{
		"empty":    `{"content":""}`,
		"missing":  `{}`,
		"too long": `{"content":"` + string(bytes.Repeat([]byte("a"), 1001)) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/posts/post-1/comments", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			setupInteractionRouter(uc).ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	uc.AssertNotCalled(t, "AddComment")
}

func TestDeleteCommentHandler(t *testing.T) {
	uc := new(MockInteractionUseCase)
	uc.On("DeleteComment", mock.Anything, "user-1", "c-1").Return(nil)
	uc.On("DeleteComment", mock.Anything, "user-1", "c-2").Return(entity.ErrForbidden)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/comments/c-1", nil)
	setupInteractionRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/comments/c-2", nil)
	setupInteractionRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
