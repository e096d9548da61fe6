package persistent

import (
	"hookr/pkg/models"
	"hookr/services/chat/internal/entity"
)

func ToParticipants(m *models.Conversation) *entity.Participants {
	if m == nil {
		return nil
	}
	return &entity.Participants{ID: m.ID, UserAID: m.UserAID, UserBID: m.UserBID}
}

func ToMessageEntity(m *models.Message) *entity.Message {
	if m == nil {
		return nil
	}
	return &entity.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

func ToUserRef(m *models.User) entity.UserRef {
	return entity.UserRef{ID: m.ID, Username: m.Username, AvatarURL: m.AvatarURL}
}

type unreadRow struct {
	ConversationID string
	Count          int64
}
