package persistent

import (
	"hookr/pkg/models"
	"hookr/services/notification/internal/entity"
)

func ToModelRef(m *models.CreatorProfile) *entity.ModelRef {
	return &entity.ModelRef{ID: m.ID, UserID: m.UserID, Name: m.Name}
}

func usernameMap(users []models.User) map[string]string {
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out
}
