package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/wallet/internal/entity"
	"hookr/services/wallet/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type SubscriptionUseCase interface {
	Tiers() []entity.Tier
	Subscribe(ctx context.Context, viewerID, modelID, tier string) (*entity.SubscribeResult, error)
	Cancel(ctx context.Context, viewerID, modelID string) (*entity.Subscription, error)
	GetState(ctx context.Context, viewerID, modelID string) (*entity.SubscriptionState, error)
	ListSubscriptions(ctx context.Context, viewerID string, limit, offset int) ([]*entity.Subscription, error)
	ListSubscribers(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Subscriber, error)
}

type subscriptionUseCase struct {
	subscriptionRepo persistent.SubscriptionRepository
	walletRepo       persistent.WalletRepository
	redisClient      *redis.Client
	publisher        queue.Publisher
	logger           *logger.Logger
	now              func() time.Time
}

func NewSubscriptionUseCase(
	subscriptionRepo persistent.SubscriptionRepository,
	walletRepo persistent.WalletRepository,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		walletRepo:       walletRepo,
		redisClient:      redisClient,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

func (uc *subscriptionUseCase) Tiers() []entity.Tier {
	return entity.Tiers()
}

func (uc *subscriptionUseCase) Subscribe(ctx context.Context, viewerID, modelID, tierID string) (*entity.SubscribeResult, error) {
	tier, ok := entity.LookupTier(tierID)
	if !ok {
		return nil, entity.ErrInvalidTier
	}

	model, err := uc.walletRepo.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if model.UserID == viewerID {
		return nil, entity.ErrOwnModel
	}

	result, err := uc.subscriptionRepo.Subscribe(ctx, viewerID, model, tier, uc.now())
	if err != nil {
		if !errors.Is(err, entity.ErrInsufficientFunds) {
			uc.logger.Error("Failed to subscribe %s to %s: %v", viewerID, modelID, err)
		}
		return nil, err
	}
	uc.logger.Info("Viewer %s subscribed to model %s (%s, renewal=%t)", viewerID, modelID, tier.ID, result.Renewal)

	uc.invalidateFeed(ctx, viewerID)

	if uc.publisher != nil {
		task := queue.NewTask(queue.TaskSubscription)
		task.UserID = model.UserID
		task.ActorID = viewerID
		task.ModelID = model.ID
		task.ReferenceID = result.Subscription.ID
		task.Data = map[string]string{
			"tier":    string(tier.ID),
			"renewal": strconv.FormatBool(result.Renewal),
		}
		if err := uc.publisher.Publish(ctx, task); err != nil {
			uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish subscription task: %v", err)
		}
	}
	return result, nil
}

func (uc *subscriptionUseCase) Cancel(ctx context.Context, viewerID, modelID string) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.Cancel(ctx, viewerID, modelID, uc.now())
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Viewer %s cancelled subscription to %s, access until %s", viewerID, modelID, sub.ExpiresAt.Format(time.RFC3339))
	return sub, nil
}

func (uc *subscriptionUseCase) GetState(ctx context.Context, viewerID, modelID string) (*entity.SubscriptionState, error) {
	sub, err := uc.subscriptionRepo.Get(ctx, viewerID, modelID, uc.now())
	if errors.Is(err, entity.ErrSubscriptionNotFound) {
		return &entity.SubscriptionState{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !sub.HasAccess {
		return &entity.SubscriptionState{}, nil
	}

	expires := sub.ExpiresAt
	return &entity.SubscriptionState{
		Subscribed: true,
		Tier:       sub.Tier,
		Status:     sub.Status,
		ExpiresAt:  &expires,
	}, nil
}

func (uc *subscriptionUseCase) ListSubscriptions(ctx context.Context, viewerID string, limit, offset int) ([]*entity.Subscription, error) {
	subs, err := uc.subscriptionRepo.List(ctx, viewerID, uc.now(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (uc *subscriptionUseCase) ListSubscribers(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Subscriber, error) {
	subscribers, err := uc.subscriptionRepo.ListSubscribers(ctx, creatorID, uc.now(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

// invalidateFeed drops the viewer's cached feed pages so newly unlocked posts show up.
func (uc *subscriptionUseCase) invalidateFeed(ctx context.Context, viewerID string) {
	if err := cache.DeletePattern(ctx, uc.redisClient, fmt.Sprintf("feed:user:%s:*", viewerID)); err != nil {
		uc.logger.Warn("Failed to invalidate feed cache for %s: %v", viewerID, err)
	}
}
