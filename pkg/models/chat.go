package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation stores its participants ordered so that UserAID < UserBID.
type Conversation struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	UserAID       string    `gorm:"column:user_a_id;type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"user_a_id"`
	UserBID       string    `gorm:"column:user_b_id;type:uuid;not null;uniqueIndex:idx_conversation_pair;index" json:"user_b_id"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	setID(&c.ID)
	return nil
}

// OrderedPair returns the two ids in storage order.
func OrderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

type Message struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	ConversationID string    `gorm:"type:uuid;not null;index:idx_message_conversation_created" json:"conversation_id"`
	SenderID       string    `gorm:"type:uuid;not null" json:"sender_id"`
	ReceiverID     string    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Content        string    `gorm:"not null" json:"content"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `gorm:"index:idx_message_conversation_created" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	setID(&m.ID)
	return nil
}
