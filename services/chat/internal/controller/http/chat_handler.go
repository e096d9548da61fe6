package http

import (
	"errors"
	"net/http"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/chat/internal/entity"
	"hookr/services/chat/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUseCase usecase.ChatUseCase
}

func NewChatHandler(chatUseCase usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

type MessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
	case errors.Is(err, entity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, entity.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrSelfConversation),
		errors.Is(err, entity.ErrEmptyMessage),
		errors.Is(err, entity.ErrMessageTooLong),
		errors.Is(err, entity.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// OpenConversation godoc
// @Summary      Open or get a conversation with a user
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Other user ID"
// @Success      200  {object}  entity.Conversation
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /conversations/{id} [post]
func (h *ChatHandler) OpenConversation(c *gin.Context) {
	conv, err := h.chatUseCase.OpenConversation(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// ListConversations godoc
// @Summary      List the caller's conversations
// @Description  Most recent activity first, with the other user, last message and unread count.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Conversation
// @Router       /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	convs, err := h.chatUseCase.ListConversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convs)
}

// GetMessages godoc
// @Summary      Message history
// @Description  Returns up to limit messages older than the before message id, oldest first.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string true  "Conversation ID"
// @Param        limit  query int    false "Page size (max 100)"
// @Param        before query string false "Message ID cursor"
// @Success      200  {array}  entity.Message
// @Failure      403  {object}  map[string]string
// @Router       /conversations/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	page := pagination.FromQuery(c, 50)
	msgs, err := h.chatUseCase.GetMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Query("before"), page.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string         true "Conversation ID"
// @Param        request body MessageRequest true "Message"
// @Success      201  {object}  entity.Message
// @Failure      403  {object}  map[string]string
// @Router       /conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chatUseCase.SendMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary      Mark received messages read
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Conversation ID"
// @Success      200  {object}  map[string]int64
// @Router       /conversations/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	n, err := h.chatUseCase.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": n})
}

// UnreadCount godoc
// @Summary      Unread messages across all conversations
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /chat/unread-count [get]
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	count, err := h.chatUseCase.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}
