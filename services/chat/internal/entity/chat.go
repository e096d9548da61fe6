package entity

import (
	"errors"
	"time"
)

const MaxMessageLength = 2000

type UserRef struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is one entry of the caller's inbox, seen from the caller's side.
type Conversation struct {
	ID            string    `json:"id"`
	OtherUser     UserRef   `json:"other_user"`
	LastMessage   *Message  `json:"last_message,omitempty"`
	UnreadCount   int64     `json:"unread_count"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Participants is the stored pair, ordered.
type Participants struct {
	ID      string
	UserAID string
	UserBID string
}

func (p *Participants) Has(userID string) bool {
	return p.UserAID == userID || p.UserBID == userID
}

// Other returns the participant that is not userID.
func (p *Participants) Other(userID string) string {
	if p.UserAID == userID {
		return p.UserBID
	}
	return p.UserAID
}

type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventRead    EventType = "read"
)

// Event is the frame pushed to chat:<user> and relayed to websockets.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id,omitempty"`
	Message        *Message  `json:"message,omitempty"`
}

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSelfConversation     = errors.New("cannot start a conversation with yourself")
	ErrNotParticipant       = errors.New("not a participant of this conversation")
	ErrEmptyMessage         = errors.New("message content is required")
	ErrMessageTooLong       = errors.New("message is too long")
	ErrInvalidCursor        = errors.New("invalid before cursor")
)
