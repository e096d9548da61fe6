package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hookr/pkg/models"
	"hookr/services/wallet/internal/entity"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Subscribe(ctx context.Context, viewerID string, model *entity.ModelRef, tier entity.Tier, now time.Time) (*entity.SubscribeResult, error)
	Cancel(ctx context.Context, viewerID, modelID string, now time.Time) (*entity.Subscription, error)
	Get(ctx context.Context, viewerID, modelID string, now time.Time) (*entity.Subscription, error)
	List(ctx context.Context, viewerID string, now time.Time, limit, offset int) ([]*entity.Subscription, error)
	ListSubscribers(ctx context.Context, creatorID string, now time.Time, limit, offset int) ([]*entity.Subscriber, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Subscribe charges the viewer, pays the creator and extends the subscription in one transaction.
// The new expiry counts from the later of now and the current expiry.
func (r *subscriptionRepository) Subscribe(ctx context.Context, viewerID string, model *entity.ModelRef, tier entity.Tier, now time.Time) (*entity.SubscribeResult, error) {
	result := &entity.SubscribeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		err := tx.Where("viewer_id = ? AND model_id = ?", viewerID, model.ID).First(&sub).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		live := found && sub.HasAccess(now)
		result.Renewal = live && sub.Status == models.SubscriptionActive && sub.Tier == models.SubscriptionTier(tier.ID)

		base := now
		if live {
			base = sub.ExpiresAt
		} else {
			sub.StartedAt = now
		}
		sub.ViewerID = viewerID
		sub.ModelID = model.ID
		sub.CreatorID = model.UserID
		sub.Tier = models.SubscriptionTier(tier.ID)
		sub.PriceCents = tier.PriceCents
		sub.Status = models.SubscriptionActive
		sub.ExpiresAt = base.Add(tier.Duration())

		if found {
			err = tx.Save(&sub).Error
		} else {
			err = tx.Create(&sub).Error
		}
		if err != nil {
			return err
		}

		balance, err := adjust(tx, viewerID, -tier.PriceCents)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("%s subscription to %s", tier.Name, model.Name)
		if err := record(tx, viewerID, models.TransactionSubscription, -tier.PriceCents, balance, sub.ID, desc); err != nil {
			return err
		}

		creatorBalance, err := adjust(tx, model.UserID, tier.PriceCents)
		if err != nil {
			return err
		}
		if err := record(tx, model.UserID, models.TransactionEarning, tier.PriceCents, creatorBalance, sub.ID, desc); err != nil {
			return err
		}

		wallet, err := ensureWallet(tx, viewerID)
		if err != nil {
			return err
		}
		result.Wallet = ToWalletEntity(wallet)
		result.Subscription = ToSubscriptionEntity(&sub, now)
		result.Subscription.ModelName = model.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel stops renewal. Access continues until the paid period runs out.
func (r *subscriptionRepository) Cancel(ctx context.Context, viewerID, modelID string, now time.Time) (*entity.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("viewer_id = ? AND model_id = ? AND status = ?", viewerID, modelID, models.SubscriptionActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}

	sub.Status = models.SubscriptionCancelled
	if err := r.db.WithContext(ctx).Model(&sub).Update("status", sub.Status).Error; err != nil {
		return nil, err
	}
	return ToSubscriptionEntity(&sub, now), nil
}

func (r *subscriptionRepository) Get(ctx context.Context, viewerID, modelID string, now time.Time) (*entity.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where("viewer_id = ? AND model_id = ?", viewerID, modelID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToSubscriptionEntity(&sub, now), nil
}

func (r *subscriptionRepository) List(ctx context.Context, viewerID string, now time.Time, limit, offset int) ([]*entity.Subscription, error) {
	var rows []subscriptionRow
	err := r.db.WithContext(ctx).Table("subscriptions").
		Select("subscriptions.*, models.name AS model_name, models.profile_image_url AS profile_image_url").
		Joins("INNER JOIN models ON models.id = subscriptions.model_id").
		Where("subscriptions.viewer_id = ?", viewerID).
		Order("subscriptions.expires_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*entity.Subscription, len(rows))
	for i := range rows {
		subs[i] = toSubscriptionRowEntity(&rows[i], now)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, creatorID string, now time.Time, limit, offset int) ([]*entity.Subscriber, error) {
	var rows []subscriberRow
	err := r.db.WithContext(ctx).Table("subscriptions").
		Select("subscriptions.viewer_id, users.username, users.avatar_url, subscriptions.model_id, subscriptions.tier, subscriptions.expires_at").
		Joins("INNER JOIN users ON users.id = subscriptions.viewer_id").
		Where("subscriptions.creator_id = ? AND subscriptions.status = ? AND subscriptions.expires_at > ?", creatorID, models.SubscriptionActive, now).
		Order("subscriptions.expires_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	subscribers := make([]*entity.Subscriber, len(rows))
	for i := range rows {
		subscribers[i] = ToSubscriberEntity(&rows[i])
	}
	return subscribers, nil
}
