package persistent

import (
	"context"
	"errors"

	"hookr/pkg/models"
	"hookr/services/interaction/internal/entity"

	"gorm.io/gorm"
)

// PostRepository resolves the owners of posts and models for permission checks and notifications.
type PostRepository interface {
	GetPost(ctx context.Context, postID string) (*entity.PostRef, error)
	GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*entity.PostRef, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("id", "model_id", "creator_id").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToPostRef(&post), nil
}

func (r *postRepository) GetModel(ctx context.Context, modelID string) (*entity.ModelRef, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", modelID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity.ModelRef{ID: m.ID, UserID: m.UserID}, nil
}
