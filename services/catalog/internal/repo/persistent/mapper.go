package persistent

import (
	"sort"

	"hookr/pkg/models"
	"hookr/pkg/validation"
	"hookr/services/catalog/internal/entity"
)

func ToModelEntity(m *models.CreatorProfile) *entity.Model {
	if m == nil {
		return nil
	}

	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Tag)
	}
	sort.Strings(tags)

	availability := make([]entity.Availability, 0, len(m.Availability))
	for _, a := range m.Availability {
		availability = append(availability, entity.Availability{Day: a.Day, Available: a.Available})
	}
	sort.Slice(availability, func(i, j int) bool {
		return dayIndex(availability[i].Day) < dayIndex(availability[j].Day)
	})

	return &entity.Model{
		ID:               m.ID,
		UserID:           m.UserID,
		Name:             m.Name,
		Age:              m.Age,
		Bio:              m.Bio,
		PriceCents:       m.PriceCents,
		Rating:           m.Rating,
		ReviewCount:      m.ReviewCount,
		Featured:         m.Featured,
		Verified:         m.Verified,
		ProfileImageURL:  m.ProfileImageURL,
		FallbackImageURL: m.FallbackImageURL,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		Tags:             tags,
		Availability:     availability,
		CreatedAt:        m.CreatedAt,
	}
}

func ToModelEntities(ms []models.CreatorProfile) []*entity.Model {
	out := make([]*entity.Model, len(ms))
	for i := range ms {
		out[i] = ToModelEntity(&ms[i])
	}
	return out
}

func dayIndex(day string) int {
	for i, d := range validation.Weekdays {
		if d == day {
			return i
		}
	}
	return len(validation.Weekdays)
}
