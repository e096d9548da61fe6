package persistent

import (
	"sort"

	"hookr/pkg/models"
	"hookr/services/feed/internal/entity"
)

// feedRow is a post joined with its model and creator.
type feedRow struct {
	models.Post
	ModelName string
	Username  string
	AvatarURL string
}

func ToPostEntity(r *feedRow, tags []string) *entity.Post {
	if r == nil {
		return nil
	}
	if tags == nil {
		tags = []string{}
	}
	sort.Strings(tags)

	return &entity.Post{
		ID:              r.ID,
		ModelID:         r.ModelID,
		ModelName:       r.ModelName,
		CreatorID:       r.CreatorID,
		CreatorUsername: r.Username,
		CreatorAvatar:   r.AvatarURL,
		Content:         r.Content,
		MediaURL:        r.MediaURL,
		MediaType:       string(r.MediaType),
		IsPremium:       r.IsPremium,
		LikesCount:      r.LikesCount,
		CommentsCount:   r.CommentsCount,
		Views:           r.Views,
		Tags:            tags,
		CreatedAt:       r.CreatedAt,
	}
}
