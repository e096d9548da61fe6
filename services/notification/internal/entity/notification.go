package entity

import (
	"errors"
	"time"
)

type Type string

const (
	TypeLike          Type = "like"
	TypeComment       Type = "comment"
	TypeBooking       Type = "booking"
	TypeReview        Type = "review"
	TypeSubscription  Type = "subscription"
	TypeMessage       Type = "message"
	TypePayment       Type = "payment"
	TypeNewPost       Type = "new_post"
	TypeTip           Type = "tip"
	TypeCreatorReview Type = "creator_review"
)

// Notification is one inbox entry. Read is computed against the user's read marker.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      Type              `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Read      bool              `json:"read"`
}

type Page struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64           `json:"total"`
	Unread        int64           `json:"unread"`
}

type Settings struct {
	ModelID string `json:"model_id"`
	Enabled bool   `json:"enabled"`
}

// ModelRef is the model a new_post task refers to.
type ModelRef struct {
	ID     string
	UserID string
	Name   string
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrModelNotFound        = errors.New("model not found")
	ErrInvalidTask          = errors.New("invalid notification task")
)
