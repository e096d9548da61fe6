package usecase

import (
	"context"
	"fmt"
	"time"

	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/services/analytics/internal/entity"
	"hookr/services/analytics/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const statsCacheTTL = 5 * time.Minute

type AnalyticsUseCase interface {
	GetCreatorStats(ctx context.Context, creatorID string) (*entity.CreatorStats, error)
	GetPostStats(ctx context.Context, postID, creatorID string) (*entity.PostStats, error)
	GetEarnings(ctx context.Context, creatorID string, days int) (*entity.Earnings, error)
}

type analyticsUseCase struct {
	analyticsRepo persistent.AnalyticsRepository
	redisClient   *redis.Client
	logger        *logger.Logger
	now           func() time.Time
}

func NewAnalyticsUseCase(analyticsRepo persistent.AnalyticsRepository, redisClient *redis.Client, logger *logger.Logger) AnalyticsUseCase {
	return &analyticsUseCase{
		analyticsRepo: analyticsRepo,
		redisClient:   redisClient,
		logger:        logger,
		now:           time.Now,
	}
}

func statsCacheKey(creatorID string) string {
	return fmt.Sprintf("analytics:creator:%s", creatorID)
}

func (uc *analyticsUseCase) GetCreatorStats(ctx context.Context, creatorID string) (*entity.CreatorStats, error) {
	var stats entity.CreatorStats
	if ok, err := cache.GetJSON(ctx, uc.redisClient, statsCacheKey(creatorID), &stats); err == nil && ok {
		return &stats, nil
	}

	totals, err := uc.analyticsRepo.PostTotals(ctx, creatorID)
	if err != nil {
		uc.logger.Error("Failed to get post totals for %s: %v", creatorID, err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	subscribers, err := uc.analyticsRepo.ActiveSubscribers(ctx, creatorID, uc.now())
	if err != nil {
		uc.logger.Error("Failed to get subscriber count: %v", err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	earnings, err := uc.analyticsRepo.TotalEarnings(ctx, creatorID)
	if err != nil {
		uc.logger.Error("Failed to get earnings: %v", err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	rating, reviews, err := uc.analyticsRepo.ModelRating(ctx, creatorID)
	if err != nil {
		uc.logger.Error("Failed to get model rating: %v", err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats = entity.CreatorStats{
		TotalPosts:         totals.Posts,
		TotalViews:         totals.Views,
		TotalLikes:         totals.Likes,
		TotalComments:      totals.Comments,
		ActiveSubscribers:  subscribers,
		TotalEarningsCents: earnings,
		Rating:             rating,
		ReviewCount:        reviews,
	}
	if err := cache.SetJSON(ctx, uc.redisClient, statsCacheKey(creatorID), stats, statsCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache stats for %s: %v", creatorID, err)
	}
	return &stats, nil
}

func (uc *analyticsUseCase) GetPostStats(ctx context.Context, postID, creatorID string) (*entity.PostStats, error) {
	post, err := uc.analyticsRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != creatorID {
		return nil, entity.ErrForbidden
	}

	count, cents, err := uc.analyticsRepo.PostTips(ctx, postID, creatorID)
	if err != nil {
		uc.logger.Error("Failed to get tips for post %s: %v", postID, err)
		return nil, err
	}

	return &entity.PostStats{
		PostID:    post.ID,
		Views:     post.Views,
		Likes:     post.LikesCount,
		Comments:  post.CommentsCount,
		TipsCount: count,
		TipsCents: cents,
	}, nil
}

// GetEarnings buckets income per UTC day for the last days days, today included.
// Days without income are present with a zero amount.
func (uc *analyticsUseCase) GetEarnings(ctx context.Context, creatorID string, days int) (*entity.Earnings, error) {
	if days < 1 || days > entity.MaxEarningsDays {
		return nil, entity.ErrInvalidDays
	}

	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	credits, err := uc.analyticsRepo.Credits(ctx, creatorID, start)
	if err != nil {
		uc.logger.Error("Failed to get earnings for %s: %v", creatorID, err)
		return nil, err
	}

	out := &entity.Earnings{Days: days, Daily: make([]entity.EarningsDay, days)}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(entity.DayLayout)
		out.Daily[i] = entity.EarningsDay{Date: date}
		index[date] = i
	}
	for _, c := range credits {
		i, ok := index[c.CreatedAt.UTC().Format(entity.DayLayout)]
		if !ok {
			continue
		}
		out.Daily[i].AmountCents += c.AmountCents
		out.TotalCents += c.AmountCents
	}
	return out, nil
}
