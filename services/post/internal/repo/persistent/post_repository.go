package persistent

import (
	"context"
	"errors"

	"hookr/pkg/models"
	"hookr/services/post/internal/entity"

	"gorm.io/gorm"
)

type PostRepository interface {
	ModelIDForUser(ctx context.Context, userID string) (string, error)
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context, f entity.ListFilter) ([]*entity.Post, error)
	Update(ctx context.Context, id string, update entity.PostUpdate) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) ModelIDForUser(ctx context.Context, userID string) (string, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", entity.ErrModelRequired
	}
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(postModel).Error; err != nil {
			return err
		}
		if len(post.Tags) == 0 {
			return nil
		}
		return tx.Create(tagRows(postModel.ID, post.Tags)).Error
	})
	if err != nil {
		return err
	}

	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	post.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToPostEntity(&post), nil
}

func (r *postRepository) List(ctx context.Context, f entity.ListFilter) ([]*entity.Post, error) {
	q := r.db.WithContext(ctx).Preload("Tags")
	if f.ModelID != "" {
		q = q.Where("model_id = ?", f.ModelID)
	}
	if f.IsPremium != nil {
		q = q.Where("is_premium = ?", *f.IsPremium)
	}
	if f.MediaType != "" {
		q = q.Where("media_type = ?", f.MediaType)
	}

	var posts []models.Post
	err := q.Order("created_at DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&posts).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Post, len(posts))
	for i := range posts {
		result[i] = ToPostEntity(&posts[i])
	}
	return result, nil
}

func (r *postRepository) Update(ctx context.Context, id string, update entity.PostUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if update.Content != nil {
			updates["content"] = *update.Content
		}
		if update.IsPremium != nil {
			updates["is_premium"] = *update.IsPremium
		}
		if len(updates) > 0 {
			res := tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return entity.ErrPostNotFound
			}
		}

		if update.Tags == nil {
			return nil
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if len(*update.Tags) == 0 {
			return nil
		}
		return tx.Create(tagRows(id, *update.Tags)).Error
	})
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
