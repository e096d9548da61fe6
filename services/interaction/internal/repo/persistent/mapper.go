package persistent

import (
	"time"

	"hookr/pkg/models"
	"hookr/services/interaction/internal/entity"
)

func ToPostRef(m *models.Post) *entity.PostRef {
	if m == nil {
		return nil
	}
	return &entity.PostRef{ID: m.ID, ModelID: m.ModelID, CreatorID: m.CreatorID}
}

// commentRow is a comment joined with its author.
type commentRow struct {
	models.Comment
	Username  string
	AvatarURL string
}

func ToCommentEntity(r *commentRow) *entity.Comment {
	if r == nil {
		return nil
	}
	return &entity.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		UserID:    r.UserID,
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

type likedPostRow struct {
	models.Post
	LikedAt time.Time
}

func ToLikedPostEntity(r *likedPostRow) *entity.LikedPost {
	if r == nil {
		return nil
	}
	return &entity.LikedPost{
		ID:            r.ID,
		ModelID:       r.ModelID,
		CreatorID:     r.CreatorID,
		Content:       r.Content,
		MediaURL:      r.MediaURL,
		MediaType:     string(r.MediaType),
		IsPremium:     r.IsPremium,
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		CreatedAt:     r.CreatedAt,
		LikedAt:       r.LikedAt,
	}
}

type reviewRow struct {
	models.Review
	Username string
}

func ToReviewEntity(r *reviewRow) *entity.Review {
	if r == nil {
		return nil
	}
	return &entity.Review{
		ID:       r.ID,
		UserName: r.Username,
		Rating:   r.Rating,
		Content:  r.Content,
		Date:     r.CreatedAt.Format(entity.ReviewDateLayout),
	}
}

type favoriteRow struct {
	ModelID         string
	Name            string
	ProfileImageURL string
	Rating          float64
	PriceCents      int64
	Verified        bool
	FavoritedAt     time.Time
}

func ToFavoriteEntity(r *favoriteRow) *entity.FavoriteModel {
	if r == nil {
		return nil
	}
	return &entity.FavoriteModel{
		ModelID:         r.ModelID,
		Name:            r.Name,
		ProfileImageURL: r.ProfileImageURL,
		Rating:          r.Rating,
		PriceCents:      r.PriceCents,
		Verified:        r.Verified,
		FavoritedAt:     r.FavoritedAt,
	}
}
