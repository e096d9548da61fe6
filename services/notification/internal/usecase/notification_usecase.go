package usecase

import (
	"context"
	"fmt"
	"time"

	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/notification/internal/entity"
	"hookr/services/notification/internal/repo/inbox"
	"hookr/services/notification/internal/repo/persistent"

	"github.com/google/uuid"
)

type NotificationUseCase interface {
	GetNotifications(ctx context.Context, userID string, limit, offset int) (*entity.Page, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, id string) error
	GetSettings(ctx context.Context, userID, modelID string) (*entity.Settings, error)
	UpdateSettings(ctx context.Context, userID, modelID string, enabled bool) (*entity.Settings, error)
	Send(ctx context.Context, n *entity.Notification) error
	HandleTask(ctx context.Context, task queue.Task) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	inboxRepo        inbox.InboxRepository
	logger           *logger.Logger
	now              func() time.Time
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, inboxRepo inbox.InboxRepository, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		inboxRepo:        inboxRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func markRead(items []*entity.Notification, readAt time.Time) int64 {
	var unread int64
	for _, n := range items {
		n.Read = !readAt.IsZero() && !n.CreatedAt.After(readAt)
		if !n.Read {
			unread++
		}
	}
	return unread
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	items, total, err := uc.inboxRepo.List(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get notifications for %s: %v", userID, err)
		return nil, err
	}
	readAt, err := uc.inboxRepo.ReadAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	markRead(items, readAt)

	unread, err := uc.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entity.Page{Notifications: items, Total: total, Unread: unread}, nil
}

func (uc *notificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	items, err := uc.inboxRepo.All(ctx, userID)
	if err != nil {
		return 0, err
	}
	readAt, err := uc.inboxRepo.ReadAt(ctx, userID)
	if err != nil {
		return 0, err
	}
	return markRead(items, readAt), nil
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.inboxRepo.MarkRead(ctx, userID, uc.now())
}

func (uc *notificationUseCase) DeleteNotification(ctx context.Context, userID, id string) error {
	return uc.inboxRepo.Delete(ctx, userID, id)
}

func (uc *notificationUseCase) GetSettings(ctx context.Context, userID, modelID string) (*entity.Settings, error) {
	enabled, err := uc.inboxRepo.Enabled(ctx, userID, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &entity.Settings{ModelID: modelID, Enabled: enabled}, nil
}

func (uc *notificationUseCase) UpdateSettings(ctx context.Context, userID, modelID string, enabled bool) (*entity.Settings, error) {
	if _, err := uc.notificationRepo.GetModel(ctx, modelID); err != nil {
		return nil, err
	}
	if err := uc.inboxRepo.SetEnabled(ctx, userID, modelID, enabled); err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}
	uc.logger.Info("Notifications for user %s from model %s set to enabled=%t", userID, modelID, enabled)
	return &entity.Settings{ModelID: modelID, Enabled: enabled}, nil
}

// Send stamps and delivers one notification.
func (uc *notificationUseCase) Send(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.now().UTC()
	}
	n.Read = false
	if err := uc.inboxRepo.Push(ctx, n); err != nil {
		return err
	}
	uc.logger.Debug("[NOTIFICATION HANDLER] Delivered %s notification %s to user %s", n.Type, n.ID, n.UserID)
	return nil
}
