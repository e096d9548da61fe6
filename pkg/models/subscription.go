package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionTier string

const (
	TierMonthly   SubscriptionTier = "monthly"
	TierQuarterly SubscriptionTier = "quarterly"
	TierYearly    SubscriptionTier = "yearly"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription grants ViewerID access to ModelID's premium posts until ExpiresAt,
// whatever Status says.
type Subscription struct {
	ID         string             `gorm:"type:uuid;primary_key" json:"id"`
	ViewerID   string             `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_viewer_model" json:"viewer_id"`
	ModelID    string             `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_viewer_model;index" json:"model_id"`
	CreatorID  string             `gorm:"type:uuid;not null;index" json:"creator_id"`
	Tier       SubscriptionTier   `gorm:"type:varchar(20);not null" json:"tier"`
	PriceCents int64              `json:"price_cents"`
	Status     SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	StartedAt  time.Time          `json:"started_at"`
	ExpiresAt  time.Time          `gorm:"index" json:"expires_at"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	setID(&s.ID)
	return nil
}

// HasAccess reports whether the subscription still unlocks premium content at t.
func (s *Subscription) HasAccess(t time.Time) bool {
	return s != nil && s.ExpiresAt.After(t)
}
