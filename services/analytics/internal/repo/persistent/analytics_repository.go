package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/analytics/internal/entity"

	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	PostTotals(ctx context.Context, creatorID string) (*entity.PostTotals, error)
	ActiveSubscribers(ctx context.Context, creatorID string, now time.Time) (int64, error)
	TotalEarnings(ctx context.Context, creatorID string) (int64, error)
	ModelRating(ctx context.Context, creatorID string) (float64, int, error)
	GetPost(ctx context.Context, postID string) (*entity.PostRef, error)
	PostTips(ctx context.Context, postID, creatorID string) (count, cents int64, err error)
	Credits(ctx context.Context, creatorID string, since time.Time) ([]entity.Credit, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) PostTotals(ctx context.Context, creatorID string) (*entity.PostTotals, error) {
	var totals entity.PostTotals
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("COUNT(*) AS posts, COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes_count), 0) AS likes, COALESCE(SUM(comments_count), 0) AS comments").
		Where("creator_id = ?", creatorID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *analyticsRepository) ActiveSubscribers(ctx context.Context, creatorID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("creator_id = ? AND status = ? AND expires_at > ?", creatorID, models.SubscriptionActive, now.UTC()).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) TotalEarnings(ctx context.Context, creatorID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("user_id = ? AND type IN ? AND amount_cents > 0", creatorID, incomeTypes).
		Scan(&total).Error
	return total, err
}

// ModelRating returns zeros for a creator without a model profile.
func (r *analyticsRepository) ModelRating(ctx context.Context, creatorID string) (float64, int, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Select("rating, review_count").Where("user_id = ?", creatorID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return m.Rating, m.ReviewCount, nil
}

func (r *analyticsRepository) GetPost(ctx context.Context, postID string) (*entity.PostRef, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, err
	}
	return ToPostRef(&post), nil
}

func (r *analyticsRepository) PostTips(ctx context.Context, postID, creatorID string) (int64, int64, error) {
	var totals tipTotals
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS total").
		Where("user_id = ? AND reference_id = ? AND type = ? AND amount_cents > 0", creatorID, postID, models.TransactionTip).
		Scan(&totals).Error
	return totals.Count, totals.Total, err
}

func (r *analyticsRepository) Credits(ctx context.Context, creatorID string, since time.Time) ([]entity.Credit, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Select("amount_cents, created_at").
		Where("user_id = ? AND type IN ? AND amount_cents > 0 AND created_at >= ?", creatorID, incomeTypes, since.UTC()).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	credits := make([]entity.Credit, len(rows))
	for i := range rows {
		credits[i] = ToCredit(&rows[i])
	}
	return credits, nil
}
