package persistent

import (
	"context"
	"errors"
	"math"

	"hookr/pkg/models"
	"hookr/services/catalog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const milesPerDegree = 69.0

type ModelRepository interface {
	List(ctx context.Context, f entity.Filter) ([]*entity.Model, error)
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Model, error)
	Create(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error)
	Update(ctx context.Context, id string, in entity.ModelInput) error
	ReplaceTags(ctx context.Context, modelID string, tags []string) error
	UpsertAvailability(ctx context.Context, modelID string, days []entity.Availability) error
	CreatorStatus(ctx context.Context, userID string) (string, error)
}

type modelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

// List applies every SQL-expressible filter. A distance filter only narrows to a bounding box;
// callers refine it with the exact great-circle distance. Limit <= 0 returns every match.
func (r *modelRepository) List(ctx context.Context, f entity.Filter) ([]*entity.Model, error) {
	q := r.db.WithContext(ctx).Model(&models.CreatorProfile{}).Preload("Tags").Preload("Availability")

	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.Verified != nil {
		q = q.Where("verified = ?", *f.Verified)
	}
	if len(f.Tags) > 0 {
		q = q.Where("id IN (?)", r.db.Model(&models.ModelTag{}).Select("model_id").Where("tag IN ?", f.Tags))
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}
	if f.MaxPriceCents > 0 {
		q = q.Where("price_cents <= ?", f.MaxPriceCents)
	}
	if f.Origin != nil && f.MaxDistance > 0 {
		dLat := f.MaxDistance / milesPerDegree
		dLng := f.MaxDistance / (milesPerDegree * math.Max(math.Cos(f.Origin.Lat*math.Pi/180), 0.01))
		q = q.Where("latitude BETWEEN ? AND ?", f.Origin.Lat-dLat, f.Origin.Lat+dLat).
			Where("longitude BETWEEN ? AND ?", f.Origin.Lng-dLng, f.Origin.Lng+dLng)
	}

	switch f.Sort {
	case entity.SortRating:
		q = q.Order("rating DESC").Order("review_count DESC")
	case entity.SortNew:
		q = q.Order("created_at DESC")
	case entity.SortPrice:
		q = q.Order("price_cents ASC")
	default:
		q = q.Order("featured DESC").Order("rating DESC")
	}
	q = q.Order("id")

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var ms []models.CreatorProfile
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return ToModelEntities(ms), nil
}

func (r *modelRepository) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *modelRepository) GetByUserID(ctx context.Context, userID string) (*entity.Model, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *modelRepository) first(ctx context.Context, query string, arg string) (*entity.Model, error) {
	var m models.CreatorProfile
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Availability").Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToModelEntity(&m), nil
}

func (r *modelRepository) Create(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error) {
	m := &models.CreatorProfile{UserID: userID}
	applyInput(m, in)

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, entity.ErrModelExists
		}
		return nil, err
	}
	return r.GetByID(ctx, m.ID)
}

func (r *modelRepository) Update(ctx context.Context, id string, in entity.ModelInput) error {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Age != nil {
		updates["age"] = *in.Age
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.PriceCents != nil {
		updates["price_cents"] = *in.PriceCents
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.ProfileImageURL != nil {
		updates["profile_image_url"] = *in.ProfileImageURL
	}
	if in.FallbackImageURL != nil {
		updates["fallback_image_url"] = *in.FallbackImageURL
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.CreatorProfile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrModelNotFound
	}
	return nil
}

func (r *modelRepository) ReplaceTags(ctx context.Context, modelID string, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("model_id = ?", modelID).Delete(&models.ModelTag{}).Error; err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		rows := make([]models.ModelTag, len(tags))
		for i, t := range tags {
			rows[i] = models.ModelTag{ModelID: modelID, Tag: t}
		}
		return tx.Create(&rows).Error
	})
}

func (r *modelRepository) UpsertAvailability(ctx context.Context, modelID string, days []entity.Availability) error {
	if len(days) == 0 {
		return nil
	}
	rows := make([]models.ModelAvailability, len(days))
	for i, d := range days {
		rows[i] = models.ModelAvailability{ModelID: modelID, Day: d.Day, Available: d.Available}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"available"}),
	}).Create(&rows).Error
}

func (r *modelRepository) CreatorStatus(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("creator_status").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", entity.ErrApprovalRequired
	}
	if err != nil {
		return "", err
	}
	return string(user.CreatorStatus), nil
}

func applyInput(m *models.CreatorProfile, in entity.ModelInput) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Age != nil {
		m.Age = *in.Age
	}
	if in.Bio != nil {
		m.Bio = *in.Bio
	}
	if in.PriceCents != nil {
		m.PriceCents = *in.PriceCents
	}
	m.Latitude = in.Latitude
	m.Longitude = in.Longitude
	if in.ProfileImageURL != nil {
		m.ProfileImageURL = *in.ProfileImageURL
	}
	if in.FallbackImageURL != nil {
		m.FallbackImageURL = *in.FallbackImageURL
	}
}
