package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/moderation/internal/entity"

	"gorm.io/gorm"
)

type ModerationRepository interface {
	ListApplications(ctx context.Context, status string, limit, offset int) ([]*entity.Application, error)
	GetApplication(ctx context.Context, userID string) (*entity.Application, error)
	Decide(ctx context.Context, userID string, decision entity.Decision, comment string, at time.Time) error
	SetUserActive(ctx context.Context, userID string, active bool) error
	DeletePost(ctx context.Context, postID string) error
	Stats(ctx context.Context) (*entity.Stats, error)
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) ListApplications(ctx context.Context, status string, limit, offset int) ([]*entity.Application, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("creator_status = ?", status).
		Order("applied_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	apps := make([]*entity.Application, len(users))
	for i := range users {
		apps[i] = ToApplicationEntity(&users[i])
	}
	return apps, nil
}

func (r *moderationRepository) GetApplication(ctx context.Context, userID string) (*entity.Application, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToApplicationEntity(&user), nil
}

// Decide moves a pending application to its final state. Only pending rows are touched so two
// admins deciding at once cannot both win.
func (r *moderationRepository) Decide(ctx context.Context, userID string, decision entity.Decision, comment string, at time.Time) error {
	updates := map[string]interface{}{
		"creator_status": string(decision),
		"reviewed_at":    at,
		"review_comment": comment,
		"updated_at":     at,
	}
	if decision == entity.DecisionApprove {
		updates["role"] = gorm.Expr("CASE WHEN role = ? THEN role ELSE ? END", models.RoleAdmin, models.RoleCreator)
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND creator_status = ?", userID, models.CreatorPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetApplication(ctx, userID); err != nil {
			return err
		}
		return entity.ErrNotPending
	}
	return nil
}

func (r *moderationRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *moderationRepository) DeletePost(ctx context.Context, postID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func (r *moderationRepository) Stats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("creator_status = ?", models.CreatorApproved).Count(&stats.Creators).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("creator_status = ?", models.CreatorPending).Count(&stats.PendingApplications).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Count(&stats.Posts).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
