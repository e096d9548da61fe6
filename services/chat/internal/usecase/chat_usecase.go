package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/chat/internal/entity"
	"hookr/services/chat/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type ChatUseCase interface {
	OpenConversation(ctx context.Context, userID, otherID string) (*entity.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
	GetMessages(ctx context.Context, userID, conversationID, before string, limit int) ([]*entity.Message, error)
	SendMessage(ctx context.Context, userID, conversationID, content string) (*entity.Message, error)
	MarkRead(ctx context.Context, userID, conversationID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Typing(ctx context.Context, userID, conversationID string) error
}

type chatUseCase struct {
	chatRepo    persistent.ChatRepository
	redisClient *redis.Client
	publisher   queue.Publisher
	logger      *logger.Logger
}

func NewChatUseCase(chatRepo persistent.ChatRepository, redisClient *redis.Client, publisher queue.Publisher, logger *logger.Logger) ChatUseCase {
	return &chatUseCase{
		chatRepo:    chatRepo,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
	}
}

// Channel is the Redis pub/sub channel carrying a user's chat events.
func Channel(userID string) string {
	return fmt.Sprintf("chat:%s", userID)
}

func (uc *chatUseCase) OpenConversation(ctx context.Context, userID, otherID string) (*entity.Conversation, error) {
	if userID == otherID {
		return nil, entity.ErrSelfConversation
	}
	other, err := uc.chatRepo.GetUser(ctx, otherID)
	if err != nil {
		return nil, err
	}

	p, err := uc.chatRepo.OpenConversation(ctx, userID, otherID)
	if err != nil {
		uc.logger.Error("Failed to open conversation between %s and %s: %v", userID, otherID, err)
		return nil, err
	}

	convs, err := uc.chatRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range convs {
		if c.ID == p.ID {
			return c, nil
		}
	}
	return &entity.Conversation{ID: p.ID, OtherUser: *other}, nil
}

func (uc *chatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.chatRepo.ListConversations(ctx, userID)
}

func (uc *chatUseCase) participants(ctx context.Context, userID, conversationID string) (*entity.Participants, error) {
	p, err := uc.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !p.Has(userID) {
		return nil, entity.ErrNotParticipant
	}
	return p, nil
}

func (uc *chatUseCase) GetMessages(ctx context.Context, userID, conversationID, before string, limit int) ([]*entity.Message, error) {
	if _, err := uc.participants(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.chatRepo.ListMessages(ctx, conversationID, before, limit)
}

func (uc *chatUseCase) SendMessage(ctx context.Context, userID, conversationID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, entity.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > entity.MaxMessageLength {
		return nil, entity.ErrMessageTooLong
	}

	p, err := uc.participants(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg, err := uc.chatRepo.CreateMessage(ctx, &entity.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		ReceiverID:     p.Other(userID),
		Content:        content,
	})
	if err != nil {
		uc.logger.Error("Failed to store message in conversation %s: %v", conversationID, err)
		return nil, err
	}

	event := entity.Event{Type: entity.EventMessage, ConversationID: conversationID, UserID: userID, Message: msg}
	uc.broadcast(ctx, event, msg.ReceiverID, msg.SenderID)

	if uc.publisher != nil {
		task := queue.NewTask(queue.TaskMessage)
		task.UserID = msg.ReceiverID
		task.ActorID = userID
		task.ReferenceID = conversationID
		task.Message = preview(content, 80)
		if err := uc.publisher.Publish(ctx, task); err != nil {
			uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish message task: %v", err)
		}
	}
	return msg, nil
}

func (uc *chatUseCase) MarkRead(ctx context.Context, userID, conversationID string) (int64, error) {
	p, err := uc.participants(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := uc.chatRepo.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.broadcast(ctx, entity.Event{Type: entity.EventRead, ConversationID: conversationID, UserID: userID}, p.Other(userID))
	}
	return n, nil
}

func (uc *chatUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.chatRepo.UnreadCount(ctx, userID)
}

// Typing tells the other participant that userID is typing. Nothing is stored.
func (uc *chatUseCase) Typing(ctx context.Context, userID, conversationID string) error {
	p, err := uc.participants(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	uc.broadcast(ctx, entity.Event{Type: entity.EventTyping, ConversationID: conversationID, UserID: userID}, p.Other(userID))
	return nil
}

func (uc *chatUseCase) broadcast(ctx context.Context, event entity.Event, userIDs ...string) {
	if uc.redisClient == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("Failed to encode %s event: %v", event.Type, err)
		return
	}
	for _, id := range userIDs {
		if err := uc.redisClient.Publish(ctx, Channel(id), payload).Err(); err != nil {
			uc.logger.Warn("Failed to publish %s event to %s: %v", event.Type, id, err)
		}
	}
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
