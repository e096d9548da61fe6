package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/notification/internal/entity"

	"gorm.io/gorm"
)

// NotificationRepository resolves the database facts a task needs before it becomes a notification.
type NotificationRepository interface {
	GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error)
	GetUsernames(ctx context.Context, userIDs ...string) (map[string]string, error)
	GetSubscribers(ctx context.Context, modelID string, now time.Time) ([]string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Select("id", "user_id", "name").Where("id = ?", modelID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToModelRef(&m), nil
}

func (r *notificationRepository) GetUsernames(ctx context.Context, userIDs ...string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "username").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return usernameMap(users), nil
}

// GetSubscribers returns viewers whose subscription to the model is active and unexpired.
func (r *notificationRepository) GetSubscribers(ctx context.Context, modelID string, now time.Time) ([]string, error) {
	var viewerIDs []string
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("model_id = ? AND status = ? AND expires_at > ?", modelID, models.SubscriptionActive, now).
		Pluck("viewer_id", &viewerIDs).Error
	return viewerIDs, err
}
