package persistent

import (
	"context"

	"hookr/pkg/models"
	"hookr/services/feed/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedRepository interface {
	ListPosts(ctx context.Context, q entity.Query) ([]*entity.Post, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) ListPosts(ctx context.Context, q entity.Query) ([]*entity.Post, error) {
	db := r.db.WithContext(ctx)

	query := db.Model(&models.Post{}).
		Select("posts.*, models.name AS model_name, users.username, users.avatar_url").
		Joins("JOIN models ON models.id = posts.model_id").
		Joins("JOIN users ON users.id = posts.creator_id")

	if q.ExcludeCreator != "" {
		query = query.Where("posts.creator_id <> ?", q.ExcludeCreator)
	}
	if q.MediaType != "" {
		query = query.Where("posts.media_type = ?", q.MediaType)
	}
	if !q.Since.IsZero() {
		query = query.Where("posts.created_at >= ?", q.Since)
	}
	if q.Tag != "" {
		query = query.Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag = ?)", q.Tag)
	}

	switch {
	case q.ByPopularity:
		query = query.Order("posts.likes_count DESC").Order("posts.created_at DESC")
	case len(q.Prioritize) > 0:
		query = query.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN posts.model_id IN ? THEN 0 ELSE 1 END, posts.created_at DESC",
			Vars: []interface{}{q.Prioritize},
		}})
	default:
		query = query.Order("posts.created_at DESC")
	}

	var rows []feedRow
	if err := query.Limit(q.Limit).Offset(q.Offset).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*entity.Post{}, nil
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var tagRows []models.PostTag
	if err := db.Where("post_id IN ?", ids).Find(&tagRows).Error; err != nil {
		return nil, err
	}
	tags := make(map[string][]string, len(rows))
	for _, t := range tagRows {
		tags[t.PostID] = append(tags[t.PostID], t.Tag)
	}

	posts := make([]*entity.Post, len(rows))
	for i := range rows {
		posts[i] = ToPostEntity(&rows[i], tags[rows[i].ID])
	}
	return posts, nil
}
