package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/chat/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	GetUser(ctx context.Context, userID string) (*entity.UserRef, error)
	OpenConversation(ctx context.Context, userID, otherID string) (*entity.Participants, error)
	GetConversation(ctx context.Context, conversationID string) (*entity.Participants, error)
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)

	CreateMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error)
	ListMessages(ctx context.Context, conversationID, before string, limit int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, conversationID, receiverID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetUser(ctx context.Context, userID string) (*entity.UserRef, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	ref := ToUserRef(&user)
	return &ref, nil
}

// OpenConversation returns the pair's conversation, creating it on first contact.
func (r *chatRepository) OpenConversation(ctx context.Context, userID, otherID string) (*entity.Participants, error) {
	a, b := models.OrderedPair(userID, otherID)
	conv := models.Conversation{UserAID: a, UserBID: b, LastMessageAt: time.Now().UTC()}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
		return nil, err
	}
	var stored models.Conversation
	if err := db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&stored).Error; err != nil {
		return nil, err
	}
	return ToParticipants(&stored), nil
}

func (r *chatRepository) GetConversation(ctx context.Context, conversationID string) (*entity.Participants, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", conversationID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrConversationNotFound
		}
		return nil, err
	}
	return ToParticipants(&conv), nil
}

func (r *chatRepository) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	db := r.db.WithContext(ctx)

	var convs []models.Conversation
	if err := db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []*entity.Conversation{}, nil
	}

	ids := make([]string, 0, len(convs))
	otherIDs := make([]string, 0, len(convs))
	for i := range convs {
		ids = append(ids, convs[i].ID)
		otherIDs = append(otherIDs, ToParticipants(&convs[i]).Other(userID))
	}

	var users []models.User
	if err := db.Where("id IN ?", otherIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	userMap := make(map[string]entity.UserRef, len(users))
	for i := range users {
		userMap[users[i].ID] = ToUserRef(&users[i])
	}

	var unread []unreadRow
	if err := db.Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS count").
		Where("conversation_id IN ? AND receiver_id = ? AND read = ?", ids, userID, false).
		Group("conversation_id").
		Scan(&unread).Error; err != nil {
		return nil, err
	}
	unreadMap := make(map[string]int64, len(unread))
	for _, u := range unread {
		unreadMap[u.ConversationID] = u.Count
	}

	result := make([]*entity.Conversation, 0, len(convs))
	for i := range convs {
		c := &convs[i]
		otherID := ToParticipants(c).Other(userID)
		other, ok := userMap[otherID]
		if !ok {
			other = entity.UserRef{ID: otherID}
		}

		var last models.Message
		err := db.Where("conversation_id = ?", c.ID).Order("created_at DESC, id DESC").First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		entry := &entity.Conversation{
			ID:            c.ID,
			OtherUser:     other,
			UnreadCount:   unreadMap[c.ID],
			LastMessageAt: c.LastMessageAt,
			CreatedAt:     c.CreatedAt,
		}
		if err == nil {
			entry.LastMessage = ToMessageEntity(&last)
		}
		result = append(result, entry)
	}
	return result, nil
}

// CreateMessage stores the message and bumps the conversation in one transaction.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error) {
	row := models.Message{
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", row.CreatedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return ToMessageEntity(&row), nil
}

// ListMessages returns up to limit messages older than the before message, oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, conversationID, before string, limit int) ([]*entity.Message, error) {
	db := r.db.WithContext(ctx)
	query := db.Where("conversation_id = ?", conversationID)

	if before != "" {
		var cursor models.Message
		if err := db.Where("id = ? AND conversation_id = ?", before, conversationID).First(&cursor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, entity.ErrInvalidCursor
			}
			return nil, err
		}
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Message
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*entity.Message, len(rows))
	for i := range rows {
		result[len(rows)-1-i] = ToMessageEntity(&rows[i])
	}
	return result, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, conversationID, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read = ?", conversationID, receiverID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *chatRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
