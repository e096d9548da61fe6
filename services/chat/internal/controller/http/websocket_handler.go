package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/ws"
	"hookr/services/chat/internal/entity"
	"hookr/services/chat/internal/hub"
	"hookr/services/chat/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type WebSocketHandler struct {
	chatUseCase usecase.ChatUseCase
	hub         *hub.Hub
	redisClient *redis.Client
	jwtService  *jwt.Service
	logger      *logger.Logger
}

func NewWebSocketHandler(chatUseCase usecase.ChatUseCase, h *hub.Hub, redisClient *redis.Client, jwtService *jwt.Service, logger *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatUseCase: chatUseCase,
		hub:         h,
		redisClient: redisClient,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// inboundFrame is what clients send over the chat socket.
type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

func errorFrame(err error) gin.H {
	return gin.H{"type": "error", "error": err.Error()}
}

// HandleWebSocket godoc
// @Summary      Live chat
// @Description  Relays chat events for the caller. Accepts {"type":"message","conversation_id","content"} and {"type":"typing","conversation_id"} frames.
// @Tags         chat
// @Param        token query string true "JWT"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /chat/ws [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, err := ws.Authenticate(c, h.jwtService)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return
	}
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime chat unavailable"})
		return
	}

	release, err := h.hub.Acquire(userID)
	if err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return
	}
	defer release()

	conn, err := ws.Upgrade(c)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ws.Relay(ctx, h.redisClient, conn, h.logger, usecase.Channel(userID)); err != nil {
		h.logger.Error("Failed to subscribe to chat for %s: %v", userID, err)
		return
	}
	go conn.KeepAlive(ctx)

	h.logger.Info("Chat socket connected for user %s (%d open)", userID, h.hub.Count(userID))
	for {
		data, err := conn.Read()
		if err != nil {
			break
		}
		if ws.IsPing(data) {
			if err := conn.WriteJSON(gin.H{"type": "pong"}); err != nil {
				break
			}
			continue
		}
		if err := h.handleFrame(ctx, userID, data); err != nil {
			if err := conn.WriteJSON(errorFrame(err)); err != nil {
				break
			}
		}
	}
	h.logger.Info("Chat socket disconnected for user %s", userID)
}

var errUnknownFrame = errors.New("unknown frame type")

// handleFrame applies one inbound frame. Delivery back to the sender happens through the relay.
func (h *WebSocketHandler) handleFrame(ctx context.Context, userID string, data []byte) error {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	if frame.ConversationID == "" {
		return entity.ErrConversationNotFound
	}

	switch entity.EventType(frame.Type) {
	case entity.EventMessage:
		_, err := h.chatUseCase.SendMessage(ctx, userID, frame.ConversationID, frame.Content)
		return err
	case entity.EventTyping:
		return h.chatUseCase.Typing(ctx, userID, frame.ConversationID)
	default:
		return errUnknownFrame
	}
}
