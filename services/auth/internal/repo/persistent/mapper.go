package persistent

import (
	"hookr/pkg/models"
	"hookr/services/auth/internal/entity"
)

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		Username:      m.Username,
		Password:      m.Password,
		AvatarURL:     m.AvatarURL,
		Bio:           m.Bio,
		Gender:        m.Gender,
		Role:          entity.UserRole(m.Role),
		IsActive:      m.IsActive,
		CreatorStatus: entity.CreatorStatus(m.CreatorStatus),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *models.User {
	if e == nil {
		return nil
	}

	return &models.User{
		ID:            e.ID,
		Email:         e.Email,
		Username:      e.Username,
		Password:      e.Password,
		AvatarURL:     e.AvatarURL,
		Bio:           e.Bio,
		Gender:        e.Gender,
		Role:          models.UserRole(e.Role),
		IsActive:      e.IsActive,
		CreatorStatus: models.CreatorStatus(e.CreatorStatus),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToApplicationEntity(m *models.User) *entity.CreatorApplication {
	if m == nil {
		return nil
	}

	return &entity.CreatorApplication{
		UserID:        m.ID,
		Status:        entity.CreatorStatus(m.CreatorStatus),
		Note:          m.CreatorNote,
		AppliedAt:     m.AppliedAt,
		ReviewedAt:    m.ReviewedAt,
		ReviewComment: m.ReviewComment,
	}
}
