package entity

import (
	"errors"
	"time"
)

type TierID string

const (
	TierMonthly   TierID = "monthly"
	TierQuarterly TierID = "quarterly"
	TierYearly    TierID = "yearly"
)

type Tier struct {
	ID           TierID   `json:"id"`
	Name         string   `json:"name"`
	PriceCents   int64    `json:"price_cents"`
	DurationDays int      `json:"duration_days"`
	Description  string   `json:"description"`
	Benefits     []string `json:"benefits"`
}

func (t Tier) Duration() time.Duration {
	return time.Duration(t.DurationDays) * 24 * time.Hour
}

var tiers = []Tier{
	{
		ID:           TierMonthly,
		Name:         "Monthly",
		PriceCents:   1999,
		DurationDays: 30,
		Description:  "Basic access to all content",
		Benefits:     []string{"Exclusive photos", "Chat access", "Early access to new content"},
	},
	{
		ID:           TierQuarterly,
		Name:         "Quarterly",
		PriceCents:   4999,
		DurationDays: 90,
		Description:  "Save 17% compared to monthly",
		Benefits:     []string{"Everything in Monthly", "Private photo requests (2/month)", "Video calls (1/month)"},
	},
	{
		ID:           TierYearly,
		Name:         "Yearly VIP",
		PriceCents:   14999,
		DurationDays: 365,
		Description:  "Best value - Save 38%",
		Benefits:     []string{"Everything in Quarterly", "Priority chat responses", "Unlimited photo requests", "Monthly video call"},
	},
}

// Tiers returns a copy of the subscription catalogue, cheapest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func LookupTier(id string) (Tier, bool) {
	for _, t := range tiers {
		if string(t.ID) == id {
			return t, true
		}
	}
	return Tier{}, false
}

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID              string             `json:"id"`
	ViewerID        string             `json:"viewer_id"`
	ModelID         string             `json:"model_id"`
	ModelName       string             `json:"model_name,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty"`
	CreatorID       string             `json:"creator_id"`
	Tier            TierID             `json:"tier"`
	PriceCents      int64              `json:"price_cents"`
	Status          SubscriptionStatus `json:"status"`
	StartedAt       time.Time          `json:"started_at"`
	ExpiresAt       time.Time          `json:"expires_at"`
	HasAccess       bool               `json:"has_access"`
}

// SubscriptionState answers "am I subscribed to this model".
type SubscriptionState struct {
	Subscribed bool               `json:"subscribed"`
	Tier       TierID             `json:"tier,omitempty"`
	Status     SubscriptionStatus `json:"status,omitempty"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
}

type Subscriber struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	ModelID   string    `json:"model_id"`
	Tier      TierID    `json:"tier"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubscribeResult reports the new subscription and whether it extended an existing one.
type SubscribeResult struct {
	Subscription *Subscription `json:"subscription"`
	Wallet       *Wallet       `json:"wallet"`
	Renewal      bool          `json:"renewal"`
}

var (
	ErrInvalidTier          = errors.New("invalid tier")
	ErrOwnModel             = errors.New("cannot subscribe to your own model")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
