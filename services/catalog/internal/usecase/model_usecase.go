package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/s3"
	"hookr/pkg/validation"
	"hookr/services/catalog/internal/entity"
	"hookr/services/catalog/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const (
	modelCacheTTL      = 10 * time.Minute
	nearbyRadiusMiles  = 10.0
	topRatedMinRating  = 4.5
	defaultBrowseLimit = 8
)

type ModelUseCase interface {
	ListModels(ctx context.Context, f entity.Filter) ([]*entity.Model, error)
	Browse(ctx context.Context, origin *entity.Point, limit int) (*entity.Browse, error)
	GetModel(ctx context.Context, id string, origin *entity.Point) (*entity.Model, error)
	GetMyModel(ctx context.Context, userID string) (*entity.Model, error)
	CreateModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error)
	UpdateMyModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error)
	SetMyTags(ctx context.Context, userID string, tags []string) (*entity.Model, error)
	SetMyAvailability(ctx context.Context, userID string, days []entity.Availability) (*entity.Model, error)
	UploadImage(ctx context.Context, userID, filename, contentType string, file io.Reader) (*entity.Model, error)
	Services(ctx context.Context, id string) ([]entity.ServiceOffer, error)
}

type modelUseCase struct {
	repo        persistent.ModelRepository
	storage     s3.Storage
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewModelUseCase(
	repo persistent.ModelRepository,
	storage s3.Storage,
	redisClient *redis.Client,
	logger *logger.Logger,
) ModelUseCase {
	return &modelUseCase{
		repo:        repo,
		storage:     storage,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *modelUseCase) ListModels(ctx context.Context, f entity.Filter) ([]*entity.Model, error) {
	if f.Origin == nil || f.MaxDistance <= 0 {
		ms, err := uc.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		labelDistances(f.Origin, ms)
		return ms, nil
	}

	limit, offset := f.Limit, f.Offset
	f.Limit, f.Offset = 0, 0
	candidates, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	within := withinRadius(*f.Origin, candidates, f.MaxDistance)
	return page(within, limit, offset), nil
}

func (uc *modelUseCase) Browse(ctx context.Context, origin *entity.Point, limit int) (*entity.Browse, error) {
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	yes := true

	var (
		b   entity.Browse
		err error
	)
	if b.Featured, err = uc.repo.List(ctx, entity.Filter{Featured: &yes, Sort: entity.SortRating, Limit: limit}); err != nil {
		return nil, err
	}
	if b.New, err = uc.repo.List(ctx, entity.Filter{Sort: entity.SortNew, Limit: limit}); err != nil {
		return nil, err
	}
	if b.TopRated, err = uc.repo.List(ctx, entity.Filter{MinRating: topRatedMinRating, Sort: entity.SortRating, Limit: limit}); err != nil {
		return nil, err
	}
	if b.Verified, err = uc.repo.List(ctx, entity.Filter{Verified: &yes, Sort: entity.SortRating, Limit: limit}); err != nil {
		return nil, err
	}

	b.Nearby = []*entity.Model{}
	if origin != nil {
		candidates, err := uc.repo.List(ctx, entity.Filter{Origin: origin, MaxDistance: nearbyRadiusMiles})
		if err != nil {
			return nil, err
		}
		b.Nearby = page(withinRadius(*origin, candidates, nearbyRadiusMiles), limit, 0)
	}

	for _, row := range [][]*entity.Model{b.Featured, b.New, b.TopRated, b.Verified} {
		labelDistances(origin, row)
	}
	return &b, nil
}

func (uc *modelUseCase) GetModel(ctx context.Context, id string, origin *entity.Point) (*entity.Model, error) {
	key := modelCacheKey(id)

	var m entity.Model
	hit, err := cache.GetJSON(ctx, uc.redisClient, key, &m)
	if err != nil {
		uc.logger.Warn("Model cache read failed for %s: %v", id, err)
	}
	if !hit {
		fresh, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, uc.redisClient, key, fresh, modelCacheTTL); err != nil {
			uc.logger.Warn("Model cache write failed for %s: %v", id, err)
		}
		m = *fresh
	}

	m.Distance = distanceLabel(distanceFrom(origin, &m))
	return &m, nil
}

func (uc *modelUseCase) GetMyModel(ctx context.Context, userID string) (*entity.Model, error) {
	m, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.Distance = unknownDistance
	return m, nil
}

func (uc *modelUseCase) CreateModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error) {
	status, err := uc.repo.CreatorStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status != "approved" {
		return nil, entity.ErrApprovalRequired
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, entity.ErrNameRequired
	}
	if _, err := uc.repo.GetByUserID(ctx, userID); err == nil {
		return nil, entity.ErrModelExists
	}

	m, err := uc.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Model %s created for user %s", m.ID, userID)
	m.Distance = unknownDistance
	return m, nil
}

func (uc *modelUseCase) UpdateMyModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error) {
	m, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, entity.ErrNameRequired
	}
	if err := uc.repo.Update(ctx, m.ID, in); err != nil {
		return nil, err
	}
	return uc.reload(ctx, m.ID)
}

func (uc *modelUseCase) SetMyTags(ctx context.Context, userID string, tags []string) (*entity.Model, error) {
	normalized := validation.NormalizeTags(tags)
	if len(normalized) > validation.MaxTags {
		return nil, entity.ErrTooManyTags
	}

	m, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.ReplaceTags(ctx, m.ID, normalized); err != nil {
		return nil, err
	}
	return uc.reload(ctx, m.ID)
}

func (uc *modelUseCase) SetMyAvailability(ctx context.Context, userID string, days []entity.Availability) (*entity.Model, error) {
	// Last entry wins when a day is repeated.
	byDay := make(map[string]bool, len(days))
	order := make([]string, 0, len(days))
	for _, d := range days {
		if !validation.IsWeekday(d.Day) {
			return nil, entity.ErrInvalidDay
		}
		day := validation.NormalizeWeekday(d.Day)
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = d.Available
	}
	merged := make([]entity.Availability, len(order))
	for i, day := range order {
		merged[i] = entity.Availability{Day: day, Available: byDay[day]}
	}

	m, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpsertAvailability(ctx, m.ID, merged); err != nil {
		return nil, err
	}
	return uc.reload(ctx, m.ID)
}

func (uc *modelUseCase) UploadImage(ctx context.Context, userID, filename, contentType string, file io.Reader) (*entity.Model, error) {
	if !s3.IsProfileImage(contentType) {
		return nil, entity.ErrInvalidImage
	}

	m, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.UploadFile(ctx, s3.ObjectKey("models", m.ID, filename), file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload model image: %v", err)
		return nil, fmt.Errorf("failed to upload image")
	}

	if err := uc.repo.Update(ctx, m.ID, entity.ModelInput{ProfileImageURL: &url}); err != nil {
		return nil, err
	}
	return uc.reload(ctx, m.ID)
}

var serviceMenu = []struct {
	name        string
	description string
	multiplier  float64
}{
	{"1 Hour", "Standard session", 1},
	{"2 Hours", "Extended session with drinks", 1.8},
	{"Dinner Date (4 hours)", "Fine dining and quality time", 3.5},
	{"Overnight (10 hours)", "Full evening and morning", 8},
	{"Weekend Getaway", "48 hours exclusive companionship", 15},
}

func (uc *modelUseCase) Services(ctx context.Context, id string) ([]entity.ServiceOffer, error) {
	m, err := uc.GetModel(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return PriceList(m.PriceCents), nil
}

// PriceList derives the service menu from an hourly price, rounding each entry to whole units.
func PriceList(priceCents int64) []entity.ServiceOffer {
	offers := make([]entity.ServiceOffer, len(serviceMenu))
	for i, s := range serviceMenu {
		units := math.Round(float64(priceCents) / 100 * s.multiplier)
		offers[i] = entity.ServiceOffer{
			Name:        s.name,
			Description: s.description,
			PriceCents:  int64(units) * 100,
		}
	}
	return offers
}

func (uc *modelUseCase) reload(ctx context.Context, id string) (*entity.Model, error) {
	if err := cache.Delete(ctx, uc.redisClient, modelCacheKey(id)); err != nil {
		uc.logger.Warn("Failed to invalidate model cache for %s: %v", id, err)
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Distance = unknownDistance
	return m, nil
}

func modelCacheKey(id string) string {
	return fmt.Sprintf("model:%s", id)
}

func labelDistances(origin *entity.Point, ms []*entity.Model) {
	for _, m := range ms {
		m.Distance = distanceLabel(distanceFrom(origin, m))
	}
}

func withinRadius(origin entity.Point, ms []*entity.Model, radius float64) []*entity.Model {
	out := make([]*entity.Model, 0, len(ms))
	for _, m := range ms {
		d, ok := distanceFrom(&origin, m)
		if !ok || d > radius {
			continue
		}
		m.Distance = distanceLabel(d, true)
		out = append(out, m)
	}
	return out
}

func page(ms []*entity.Model, limit, offset int) []*entity.Model {
	if offset >= len(ms) {
		return []*entity.Model{}
	}
	ms = ms[offset:]
	if limit > 0 && limit < len(ms) {
		ms = ms[:limit]
	}
	return ms
}
