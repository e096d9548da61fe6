package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hookr/pkg/access"
	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/services/feed/internal/entity"
	"hookr/services/feed/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const feedCacheTTL = 60 * time.Second

type FeedUseCase interface {
	GetFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error)
	GetVideoFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error)
	Explore(ctx context.Context, userID, tag string, limit, offset int) (*entity.Page, error)
}

type feedUseCase struct {
	feedRepo    persistent.FeedRepository
	access      *access.Checker
	redisClient *redis.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewFeedUseCase(feedRepo persistent.FeedRepository, checker *access.Checker, redisClient *redis.Client, logger *logger.Logger) FeedUseCase {
	return &feedUseCase{
		feedRepo:    feedRepo,
		access:      checker,
		redisClient: redisClient,
		logger:      logger,
		now:         time.Now,
	}
}

// FeedCacheKey is invalidated by the wallet service with the feed:user:<id>:* pattern.
func FeedCacheKey(userID string, offset, limit int) string {
	return fmt.Sprintf("feed:user:%s:%d:%d", userID, offset, limit)
}

// GetFeed lists posts from the viewer's subscriptions first, then everything else, newest first.
func (uc *feedUseCase) GetFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	key := FeedCacheKey(userID, offset, limit)

	var cached entity.Page
	if ok, err := cache.GetJSON(ctx, uc.redisClient, key, &cached); err != nil {
		uc.logger.Warn("Failed to read feed cache %s: %v", key, err)
	} else if ok {
		return &cached, nil
	}

	subscribed, err := uc.access.ActiveModelIDs(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to load subscriptions for %s: %v", userID, err)
		return nil, err
	}

	posts, err := uc.feedRepo.ListPosts(ctx, entity.Query{
		Prioritize:     subscribed,
		ExcludeCreator: userID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		uc.logger.Error("Failed to get feed for %s: %v", userID, err)
		return nil, err
	}

	set := make(map[string]bool, len(subscribed))
	for _, id := range subscribed {
		set[id] = true
	}
	for _, p := range posts {
		p.Subscribed = set[p.ModelID]
	}

	page, err := uc.gate(ctx, userID, posts, offset)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("GetFeed: user=%s, subscribed_models=%d, posts=%d", userID, len(subscribed), page.Count)

	if err := cache.SetJSON(ctx, uc.redisClient, key, page, feedCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache feed %s: %v", key, err)
	}
	return page, nil
}

func (uc *feedUseCase) GetVideoFeed(ctx context.Context, userID string, limit, offset int) (*entity.Page, error) {
	posts, err := uc.feedRepo.ListPosts(ctx, entity.Query{
		MediaType: entity.MediaVideo,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		uc.logger.Error("Failed to get video feed: %v", err)
		return nil, err
	}
	return uc.gate(ctx, userID, posts, offset)
}

// Explore ranks the last 30 days of posts by likes, optionally narrowed to one tag.
func (uc *feedUseCase) Explore(ctx context.Context, userID, tag string, limit, offset int) (*entity.Page, error) {
	posts, err := uc.feedRepo.ListPosts(ctx, entity.Query{
		Tag:          strings.ToLower(strings.TrimSpace(tag)),
		Since:        uc.now().UTC().Add(-entity.ExploreWindow),
		ByPopularity: true,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		uc.logger.Error("Failed to get explore feed (tag=%q): %v", tag, err)
		return nil, err
	}
	return uc.gate(ctx, userID, posts, offset)
}

func (uc *feedUseCase) gate(ctx context.Context, userID string, posts []*entity.Post, offset int) (*entity.Page, error) {
	if err := access.Apply(ctx, uc.access, userID, posts); err != nil {
		return nil, err
	}
	return &entity.Page{Posts: posts, Count: len(posts), Offset: offset}, nil
}
