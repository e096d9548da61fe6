package persistent

import (
	"time"

	"hookr/pkg/models"
	"hookr/services/wallet/internal/entity"
)

func ToWalletEntity(m *models.Wallet) *entity.Wallet {
	return &entity.Wallet{
		ID:           m.ID,
		UserID:       m.UserID,
		BalanceCents: m.BalanceCents,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToTransactionEntity(m *models.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:           m.ID,
		Type:         entity.TransactionType(m.Type),
		AmountCents:  m.AmountCents,
		BalanceAfter: m.BalanceAfter,
		ReferenceID:  m.ReferenceID,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

type subscriptionRow struct {
	models.Subscription
	ModelName       string
	ProfileImageURL string
}

func ToSubscriptionEntity(m *models.Subscription, now time.Time) *entity.Subscription {
	return &entity.Subscription{
		ID:         m.ID,
		ViewerID:   m.ViewerID,
		ModelID:    m.ModelID,
		CreatorID:  m.CreatorID,
		Tier:       entity.TierID(m.Tier),
		PriceCents: m.PriceCents,
		Status:     entity.SubscriptionStatus(m.Status),
		StartedAt:  m.StartedAt,
		ExpiresAt:  m.ExpiresAt,
		HasAccess:  m.HasAccess(now),
	}
}

func toSubscriptionRowEntity(r *subscriptionRow, now time.Time) *entity.Subscription {
	s := ToSubscriptionEntity(&r.Subscription, now)
	s.ModelName = r.ModelName
	s.ProfileImageURL = r.ProfileImageURL
	return s
}

type subscriberRow struct {
	ViewerID  string
	Username  string
	AvatarURL string
	ModelID   string
	Tier      string
	ExpiresAt time.Time
}

func ToSubscriberEntity(r *subscriberRow) *entity.Subscriber {
	return &entity.Subscriber{
		UserID:    r.ViewerID,
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		ModelID:   r.ModelID,
		Tier:      entity.TierID(r.Tier),
		ExpiresAt: r.ExpiresAt,
	}
}
