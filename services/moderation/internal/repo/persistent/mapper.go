package persistent

import (
	"hookr/pkg/models"
	"hookr/services/moderation/internal/entity"
)

func ToApplicationEntity(m *models.User) *entity.Application {
	if m == nil {
		return nil
	}

	return &entity.Application{
		UserID:        m.ID,
		Username:      m.Username,
		Email:         m.Email,
		AvatarURL:     m.AvatarURL,
		Status:        string(m.CreatorStatus),
		Note:          m.CreatorNote,
		AppliedAt:     m.AppliedAt,
		ReviewedAt:    m.ReviewedAt,
		ReviewComment: m.ReviewComment,
	}
}
