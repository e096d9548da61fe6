// Package inbox keeps each user's notifications in Redis.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hookr/pkg/logger"
	"hookr/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	MaxItems = 100
	TTL      = 30 * 24 * time.Hour
)

func ListKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// Channel is the pub/sub channel the websocket relay listens on. It shares the list key's name.
func Channel(userID string) string {
	return ListKey(userID)
}

func readAtKey(userID string) string {
	return fmt.Sprintf("notifications:%s:read_at", userID)
}

func settingsKey(userID, modelID string) string {
	return fmt.Sprintf("notification_settings:%s:%s", userID, modelID)
}

type InboxRepository interface {
	Push(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error)
	All(ctx context.Context, userID string) ([]*entity.Notification, error)
	Delete(ctx context.Context, userID, id string) error
	ReadAt(ctx context.Context, userID string) (time.Time, error)
	MarkRead(ctx context.Context, userID string, at time.Time) error
	Enabled(ctx context.Context, userID, modelID string) (bool, error)
	SetEnabled(ctx context.Context, userID, modelID string, enabled bool) error
}

type inboxRepository struct {
	client *redis.Client
	logger *logger.Logger
}

func NewInboxRepository(client *redis.Client, logger *logger.Logger) InboxRepository {
	return &inboxRepository{client: client, logger: logger}
}

// Push stores the notification newest first, trims the inbox and publishes it to live listeners.
// Once stored, a failed publish is only logged: the item is already in the inbox.
func (r *inboxRepository) Push(ctx context.Context, n *entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := ListKey(n.UserID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, MaxItems-1)
	pipe.Expire(ctx, key, TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := r.client.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		r.logger.Warn("Failed to publish notification %s to %s: %v", n.ID, n.UserID, err)
	}
	return nil
}

func decode(raw []string) []*entity.Notification {
	out := make([]*entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err == nil {
			out = append(out, &n)
		}
	}
	return out
}

func (r *inboxRepository) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	key := ListKey(userID)
	raw, err := r.client.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}
	total, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, err
	}
	return decode(raw), total, nil
}

func (r *inboxRepository) All(ctx context.Context, userID string) ([]*entity.Notification, error) {
	raw, err := r.client.LRange(ctx, ListKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return decode(raw), nil
}

func (r *inboxRepository) Delete(ctx context.Context, userID, id string) error {
	key := ListKey(userID)
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, item := range raw {
		var n entity.Notification
		if json.Unmarshal([]byte(item), &n) != nil || n.ID != id {
			continue
		}
		removed, err := r.client.LRem(ctx, key, 1, item).Result()
		if err != nil {
			return err
		}
		if removed > 0 {
			return nil
		}
	}
	return entity.ErrNotificationNotFound
}

func (r *inboxRepository) ReadAt(ctx context.Context, userID string) (time.Time, error) {
	raw, err := r.client.Get(ctx, readAtKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

func (r *inboxRepository) MarkRead(ctx context.Context, userID string, at time.Time) error {
	return r.client.Set(ctx, readAtKey(userID), at.UTC().Format(time.RFC3339Nano), TTL).Err()
}

// Enabled defaults to true; only an explicit "off" silences a model.
func (r *inboxRepository) Enabled(ctx context.Context, userID, modelID string) (bool, error) {
	v, err := r.client.Get(ctx, settingsKey(userID, modelID)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return v != "off", nil
}

func (r *inboxRepository) SetEnabled(ctx context.Context, userID, modelID string, enabled bool) error {
	value := "on"
	if !enabled {
		value = "off"
	}
	return r.client.Set(ctx, settingsKey(userID, modelID), value, 0).Err()
}
