package persistent

import (
	"context"
	"errors"
	"math"

	"hookr/pkg/models"
	"hookr/services/interaction/internal/entity"

	"gorm.io/gorm"
)

type SocialRepository interface {
	AddFavorite(ctx context.Context, userID, modelID string) error
	RemoveFavorite(ctx context.Context, userID, modelID string) error
	IsFavorite(ctx context.Context, userID, modelID string) (bool, error)
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteModel, error)

	HasReviewed(ctx context.Context, userID, modelID string) (bool, error)
	CreateReview(ctx context.Context, userID, modelID string, rating int, content string) (*entity.Review, *entity.ModelRating, error)
	ListReviews(ctx context.Context, modelID string, limit, offset int) ([]*entity.Review, error)
}

type socialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) AddFavorite(ctx context.Context, userID, modelID string) error {
	err := r.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, ModelID: modelID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.ErrAlreadyFavorite
	}
	return err
}

func (r *socialRepository) RemoveFavorite(ctx context.Context, userID, modelID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND model_id = ?", userID, modelID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrFavoriteNotFound
	}
	return nil
}

func (r *socialRepository) IsFavorite(ctx context.Context, userID, modelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND model_id = ?", userID, modelID).
		Count(&count).Error
	return count > 0, err
}

func (r *socialRepository) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteModel, error) {
	var rows []favoriteRow
	err := r.db.WithContext(ctx).Table("favorites").
		Select("models.id AS model_id, models.name, models.profile_image_url, models.rating, models.price_cents, models.verified, favorites.created_at AS favorited_at").
		Joins("INNER JOIN models ON models.id = favorites.model_id").
		Where("favorites.user_id = ? AND models.deleted_at IS NULL", userID).
		Order("favorites.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.FavoriteModel, len(rows))
	for i := range rows {
		out[i] = ToFavoriteEntity(&rows[i])
	}
	return out, nil
}

func (r *socialRepository) HasReviewed(ctx context.Context, userID, modelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND model_id = ?", userID, modelID).
		Count(&count).Error
	return count > 0, err
}

// CreateReview stores the review and recomputes the model's rating in the same transaction.
func (r *socialRepository) CreateReview(ctx context.Context, userID, modelID string, rating int, content string) (*entity.Review, *entity.ModelRating, error) {
	review := &models.Review{ModelID: modelID, UserID: userID, Rating: rating, Content: content}
	var agg struct {
		Average float64
		Total   int
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return entity.ErrAlreadyReviewed
			}
			return err
		}

		if err := tx.Model(&models.Review{}).
			Select("AVG(rating) AS average, COUNT(*) AS total").
			Where("model_id = ?", modelID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&models.CreatorProfile{}).Where("id = ?", modelID).Updates(map[string]interface{}{
			"rating":       roundRating(agg.Average),
			"review_count": agg.Total,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var username string
	r.db.WithContext(ctx).Model(&models.User{}).Select("username").Where("id = ?", userID).Scan(&username)

	return ToReviewEntity(&reviewRow{Review: *review, Username: username}),
		&entity.ModelRating{Rating: roundRating(agg.Average), ReviewCount: agg.Total},
		nil
}

func (r *socialRepository) ListReviews(ctx context.Context, modelID string, limit, offset int) ([]*entity.Review, error) {
	var rows []reviewRow
	err := r.db.WithContext(ctx).Table("reviews").
		Select("reviews.*, users.username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.model_id = ?", modelID).
		Order("reviews.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Review, len(rows))
	for i := range rows {
		out[i] = ToReviewEntity(&rows[i])
	}
	return out, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
