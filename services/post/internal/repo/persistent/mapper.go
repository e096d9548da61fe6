package persistent

import (
	"sort"

	"hookr/pkg/models"
	"hookr/services/post/internal/entity"
)

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Tag)
	}
	sort.Strings(tags)

	return &entity.Post{
		ID:            m.ID,
		ModelID:       m.ModelID,
		CreatorID:     m.CreatorID,
		Content:       m.Content,
		MediaURL:      m.MediaURL,
		MediaKey:      m.MediaKey,
		MediaType:     entity.MediaType(m.MediaType),
		IsPremium:     m.IsPremium,
		LikesCount:    m.LikesCount,
		CommentsCount: m.CommentsCount,
		Views:         m.Views,
		Tags:          tags,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:        e.ID,
		ModelID:   e.ModelID,
		CreatorID: e.CreatorID,
		Content:   e.Content,
		MediaURL:  e.MediaURL,
		MediaKey:  e.MediaKey,
		MediaType: models.MediaType(e.MediaType),
		IsPremium: e.IsPremium,
	}
}

func tagRows(postID string, tags []string) []models.PostTag {
	rows := make([]models.PostTag, len(tags))
	for i, t := range tags {
		rows[i] = models.PostTag{PostID: postID, Tag: t}
	}
	return rows
}
