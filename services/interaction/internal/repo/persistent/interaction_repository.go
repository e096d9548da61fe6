package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/interaction/internal/entity"

	"gorm.io/gorm"
)

type InteractionRepository interface {
	ToggleLike(ctx context.Context, userID, postID string) (*entity.LikeStatus, error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	GetLikeCount(ctx context.Context, postID string) (int64, error)
	GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.LikedPost, error)

	CreateComment(ctx context.Context, postID, userID, content string) (*entity.Comment, error)
	GetComment(ctx context.Context, commentID string) (*entity.Comment, error)
	ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type interactionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func bumpCounter(tx *gorm.DB, postID, column string, up bool) error {
	expr := gorm.Expr(column + " + 1")
	if !up {
		expr = gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumn(column, expr).Error
}

// ToggleLike flips the caller's like. Unlikes are soft deletes and a later like restores the row.
func (r *interactionRepository) ToggleLike(ctx context.Context, userID, postID string) (*entity.LikeStatus, error) {
	status := &entity.LikeStatus{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like models.Like
		err := tx.Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
			status.Liked = true
		case err != nil:
			return err
		case like.DeletedAt.Valid:
			if err := tx.Unscoped().Model(&like).Updates(map[string]interface{}{
				"deleted_at": nil,
				"created_at": time.Now().UTC(),
			}).Error; err != nil {
				return err
			}
			status.Liked = true
		default:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
		}

		if err := bumpCounter(tx, postID, "likes_count", status.Liked); err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Select("likes_count").Where("id = ?", postID).Scan(&status.LikesCount).Error
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (r *interactionRepository) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *interactionRepository) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("likes_count").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, entity.ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}
	return int64(post.LikesCount), nil
}

func (r *interactionRepository) GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.LikedPost, error) {
	var rows []likedPostRow
	err := r.db.WithContext(ctx).Table("posts").
		Select("posts.*, likes.created_at AS liked_at").
		Joins("INNER JOIN likes ON posts.id = likes.post_id").
		Where("likes.user_id = ? AND likes.deleted_at IS NULL AND posts.deleted_at IS NULL", userID).
		Order("likes.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.LikedPost, len(rows))
	for i := range rows {
		posts[i] = ToLikedPostEntity(&rows[i])
	}
	return posts, nil
}

func (r *interactionRepository) CreateComment(ctx context.Context, postID, userID, content string) (*entity.Comment, error) {
	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return bumpCounter(tx, postID, "comments_count", true)
	})
	if err != nil {
		return nil, err
	}
	return r.GetComment(ctx, comment.ID)
}

func (r *interactionRepository) commentQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("comments").
		Select("comments.*, users.username, users.avatar_url").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.deleted_at IS NULL")
}

func (r *interactionRepository) GetComment(ctx context.Context, commentID string) (*entity.Comment, error) {
	var rows []commentRow
	if err := r.commentQuery(ctx).Where("comments.id = ?", commentID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, entity.ErrCommentNotFound
	}
	return ToCommentEntity(&rows[0]), nil
}

func (r *interactionRepository) ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	var rows []commentRow
	err := r.commentQuery(ctx).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(rows))
	for i := range rows {
		comments[i] = ToCommentEntity(&rows[i])
	}
	return comments, nil
}

func (r *interactionRepository) DeleteComment(ctx context.Context, commentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Where("id = ?", commentID).First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrCommentNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return bumpCounter(tx, comment.PostID, "comments_count", false)
	})
}
