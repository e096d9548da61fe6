package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/services/chat/internal/entity"
	"hookr/services/chat/internal/hub"
	"hookr/services/chat/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatUseCase struct {
	mock.Mock
}

var _ usecase.ChatUseCase = (*MockChatUseCase)(nil)

func (m *MockChatUseCase) OpenConversation(ctx context.Context, userID, otherID string) (*entity.Conversation, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Conversation), args.Error(1)
}

func (m *MockChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Conversation), args.Error(1)
}

func (m *MockChatUseCase) GetMessages(ctx context.Context, userID, conversationID, before string, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, userID, conversationID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockChatUseCase) SendMessage(ctx context.Context, userID, conversationID, content string) (*entity.Message, error) {
	args := m.Called(ctx, userID, conversationID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Message), args.Error(1)
}

func (m *MockChatUseCase) MarkRead(ctx context.Context, userID, conversationID string) (int64, error) {
	args := m.Called(ctx, userID, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatUseCase) Typing(ctx context.Context, userID, conversationID string) error {
	return m.Called(ctx, userID, conversationID).Error(0)
}

func setupRouter(uc usecase.ChatUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewChatHandler(uc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	r.GET("/conversations", h.ListConversations)
	r.POST("/conversations/:id", h.OpenConversation)
	r.GET("/conversations/:id/messages", h.GetMessages)
	r.POST("/conversations/:id/messages", h.SendMessage)
	r.POST("/conversations/:id/read", h.MarkRead)
	r.GET("/chat/unread-count", h.UnreadCount)
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

func TestOpenConversationHandler(t *testing.T) {
	uc := new(MockChatUseCase)
	uc.On("OpenConversation", mock.Anything, "user-1", "user-2").
		Return(&entity.Conversation{ID: "c-1", OtherUser: entity.UserRef{ID: "user-2", Username: "bob"}}, nil)
	uc.On("OpenConversation", mock.Anything, "user-1", "user-1").Return(nil, entity.ErrSelfConversation)
	uc.On("OpenConversation", mock.Anything, "user-1", "ghost").Return(nil, entity.ErrUserNotFound)
	r := setupRouter(uc)

	w := do(r, "POST", "/conversations/user-2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/conversations/user-1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "POST", "/conversations/ghost", "").Code)
}

func TestGetMessagesHandler(t *testing.T) {
	uc := new(MockChatUseCase)
	uc.On("GetMessages", mock.Anything, "user-1", "c-1", "m-9", 20).
		Return([]*entity.Message{{ID: "m-1", Content: "hi"}}, nil)
	uc.On("GetMessages", mock.Anything, "user-1", "c-2", "", 50).Return(nil, entity.ErrNotParticipant)
	r := setupRouter(uc)

	w := do(r, "GET", "/conversations/c-1/messages?limit=20&before=m-9", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"hi"`)

	assert.Equal(t, http.StatusForbidden, do(r, "GET", "/conversations/c-2/messages", "").Code)
}

func TestSendMessageHandler(t *testing.T) {
	uc := new(MockChatUseCase)
	uc.On("SendMessage", mock.Anything, "user-1", "c-1", "hello").
		Return(&entity.Message{ID: "m-1", ConversationID: "c-1", Content: "hello"}, nil)
	r := setupRouter(uc)

	assert.Equal(t, http.StatusCreated, do(r, "POST", "/conversations/c-1/messages", `{"content":"hello"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/conversations/c-1/messages", `{"content":""}`).Code)

	long := `{"content":"` + strings.Repeat("x", entity.MaxMessageLength+1) + `"}`
	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/conversations/c-1/messages", long).Code)
	uc.AssertNumberOfCalls(t, "SendMessage", 1)
}

func TestMarkReadAndUnreadHandlers(t *testing.T) {
	uc := new(MockChatUseCase)
	uc.On("MarkRead", mock.Anything, "user-1", "c-1").Return(int64(3), nil)
	uc.On("UnreadCount", mock.Anything, "user-1").Return(int64(4), nil)
	r := setupRouter(uc)

	w := do(r, "POST", "/conversations/c-1/read", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"marked":3}`, w.Body.String())

	w = do(r, "GET", "/chat/unread-count", "")
	assert.JSONEq(t, `{"unread":4}`, w.Body.String())
}

func TestHandleWebSocket_Rejections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	jwtService := jwt.NewService("test-secret")
	token, err := jwtService.GenerateToken("user-1", "viewer")
	require.NoError(t, err)

	h := hub.New(1)
	_, err = h.Acquire("user-1")
	require.NoError(t, err)

	wsHandler := NewWebSocketHandler(new(MockChatUseCase), h, redis.NewClient(&redis.Options{Addr: mr.Addr()}), jwtService, logger.NewWithWriter(io.Discard, "error"))
	r := gin.New()
	r.GET("/chat/ws", wsHandler.HandleWebSocket)

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/chat/ws", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "GET", "/chat/ws?token="+token, "").Code)
}

func TestHandleFrame(t *testing.T) {
	uc := new(MockChatUseCase)
	uc.On("SendMessage", mock.Anything, "user-1", "c-1", "yo").Return(&entity.Message{ID: "m-1"}, nil)
	uc.On("Typing", mock.Anything, "user-1", "c-1").Return(nil)
	h := NewWebSocketHandler(uc, hub.New(0), nil, jwt.NewService("s"), logger.NewWithWriter(io.Discard, "error"))
	ctx := context.Background()

	assert.NoError(t, h.handleFrame(ctx, "user-1", []byte(`{"type":"message","conversation_id":"c-1","content":"yo"}`)))
	assert.NoError(t, h.handleFrame(ctx, "user-1", []byte(`{"type":"typing","conversation_id":"c-1"}`)))
	assert.ErrorIs(t, h.handleFrame(ctx, "user-1", []byte(`{"type":"wave","conversation_id":"c-1"}`)), errUnknownFrame)
	assert.ErrorIs(t, h.handleFrame(ctx, "user-1", []byte(`{"type":"typing"}`)), entity.ErrConversationNotFound)
	assert.Error(t, h.handleFrame(ctx, "user-1", []byte(`not json`)))
	uc.AssertExpectations(t)
}
