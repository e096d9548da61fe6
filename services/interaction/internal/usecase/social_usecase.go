package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/interaction/internal/entity"
	"hookr/services/interaction/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type SocialUseCase interface {
	AddFavorite(ctx context.Context, userID, modelID string) error
	RemoveFavorite(ctx context.Context, userID, modelID string) error
	ToggleFavorite(ctx context.Context, userID, modelID string) (*entity.FavoriteStatus, error)
	GetFavorite(ctx context.Context, userID, modelID string) (*entity.FavoriteStatus, error)
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteModel, error)
	CreateReview(ctx context.Context, userID, modelID string, rating int, content string) (*entity.Review, error)
	ListReviews(ctx context.Context, modelID string, limit, offset int) ([]*entity.Review, error)
}

type socialUseCase struct {
	socialRepo  persistent.SocialRepository
	postRepo    persistent.PostRepository
	redisClient *redis.Client
	publisher   queue.Publisher
	logger      *logger.Logger
}

func NewSocialUseCase(
	socialRepo persistent.SocialRepository,
	postRepo persistent.PostRepository,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) SocialUseCase {
	return &socialUseCase{
		socialRepo:  socialRepo,
		postRepo:    postRepo,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *socialUseCase) AddFavorite(ctx context.Context, userID, modelID string) error {
	if _, err := uc.postRepo.GetModel(ctx, modelID); err != nil {
		return err
	}
	exists, err := uc.socialRepo.IsFavorite(ctx, userID, modelID)
	if err != nil {
		return err
	}
	if exists {
		return entity.ErrAlreadyFavorite
	}
	return uc.socialRepo.AddFavorite(ctx, userID, modelID)
}

func (uc *socialUseCase) RemoveFavorite(ctx context.Context, userID, modelID string) error {
	return uc.socialRepo.RemoveFavorite(ctx, userID, modelID)
}

func (uc *socialUseCase) ToggleFavorite(ctx context.Context, userID, modelID string) (*entity.FavoriteStatus, error) {
	exists, err := uc.socialRepo.IsFavorite(ctx, userID, modelID)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := uc.socialRepo.RemoveFavorite(ctx, userID, modelID); err != nil && !errors.Is(err, entity.ErrFavoriteNotFound) {
			return nil, err
		}
		return &entity.FavoriteStatus{Favorite: false}, nil
	}

	if err := uc.AddFavorite(ctx, userID, modelID); err != nil && !errors.Is(err, entity.ErrAlreadyFavorite) {
		return nil, err
	}
	return &entity.FavoriteStatus{Favorite: true}, nil
}

func (uc *socialUseCase) GetFavorite(ctx context.Context, userID, modelID string) (*entity.FavoriteStatus, error) {
	exists, err := uc.socialRepo.IsFavorite(ctx, userID, modelID)
	if err != nil {
		return nil, err
	}
	return &entity.FavoriteStatus{Favorite: exists}, nil
}

func (uc *socialUseCase) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteModel, error) {
	return uc.socialRepo.ListFavorites(ctx, userID, limit, offset)
}

func (uc *socialUseCase) CreateReview(ctx context.Context, userID, modelID string, rating int, content string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, entity.ErrInvalidRating
	}

	model, err := uc.postRepo.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if model.UserID == userID {
		return nil, entity.ErrOwnModel
	}

	reviewed, err := uc.socialRepo.HasReviewed(ctx, userID, modelID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, entity.ErrAlreadyReviewed
	}

	review, agg, err := uc.socialRepo.CreateReview(ctx, userID, modelID, rating, strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Model %s reviewed by %s: rating now %.1f over %d reviews", modelID, userID, agg.Rating, agg.ReviewCount)

	if err := cache.Delete(ctx, uc.redisClient, "model:"+modelID); err != nil {
		uc.logger.Warn("Failed to invalidate model cache for %s: %v", modelID, err)
	}

	if uc.publisher != nil {
		task := queue.NewTask(queue.TaskReview)
		task.UserID = model.UserID
		task.ActorID = userID
		task.ModelID = modelID
		task.ReferenceID = review.ID
		task.Data = map[string]string{"rating": strconv.Itoa(rating)}
		if err := uc.publisher.Publish(ctx, task); err != nil {
			uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish review task: %v", err)
		}
	}
	return review, nil
}

func (uc *socialUseCase) ListReviews(ctx context.Context, modelID string, limit, offset int) ([]*entity.Review, error) {
	if _, err := uc.postRepo.GetModel(ctx, modelID); err != nil {
		return nil, err
	}
	return uc.socialRepo.ListReviews(ctx, modelID, limit, offset)
}
