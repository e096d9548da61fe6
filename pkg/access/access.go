// Package access answers "may this viewer see that model's premium posts".
package access

import (
	"context"
	"time"

	"hookr/pkg/models"

	"gorm.io/gorm"
)

type Checker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db, now: time.Now}
}

// SubscribedModels returns the subset of modelIDs the viewer currently has access to.
// A cancelled subscription keeps access until it expires.
func (c *Checker) SubscribedModels(ctx context.Context, viewerID string, modelIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if viewerID == "" || len(modelIDs) == 0 {
		return out, nil
	}

	var ids []string
	err := c.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("viewer_id = ? AND model_id IN ? AND expires_at > ?", viewerID, modelIDs, c.now().UTC()).
		Pluck("model_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// StoredRole returns the role on record for an active user, or "" when there is none.
func (c *Checker) StoredRole(ctx context.Context, userID string) (string, error) {
	var roles []string
	err := c.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil || len(roles) == 0 {
		return "", err
	}
	return roles[0], nil
}

// ActiveModelIDs lists every model the viewer currently has access to.
func (c *Checker) ActiveModelIDs(ctx context.Context, viewerID string) ([]string, error) {
	var ids []string
	err := c.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("viewer_id = ? AND expires_at > ?", viewerID, c.now().UTC()).
		Pluck("model_id", &ids).Error
	return ids, err
}

func (c *Checker) HasAccess(ctx context.Context, viewerID, modelID string) (bool, error) {
	set, err := c.SubscribedModels(ctx, viewerID, []string{modelID})
	if err != nil {
		return false, err
	}
	return set[modelID], nil
}

// Gated is a post as seen by one viewer.
type Gated interface {
	Owner() string
	Model() string
	Premium() bool
	Lock()
}

// Apply locks every premium item the viewer neither owns nor subscribes to.
func Apply[T Gated](ctx context.Context, c *Checker, viewerID string, items []T) error {
	modelIDs := make([]string, 0, len(items))
	for _, it := range items {
		if it.Premium() && it.Owner() != viewerID {
			modelIDs = append(modelIDs, it.Model())
		}
	}
	if len(modelIDs) == 0 {
		return nil
	}

	subscribed, err := c.SubscribedModels(ctx, viewerID, modelIDs)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.Premium() && it.Owner() != viewerID && !subscribed[it.Model()] {
			it.Lock()
		}
	}
	return nil
}
