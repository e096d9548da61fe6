package usecase

import (
	"context"
	"fmt"
	"time"

	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/moderation/internal/entity"
	"hookr/services/moderation/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type ModerationUseCase interface {
	ListApplications(ctx context.Context, status string, limit, offset int) ([]*entity.Application, error)
	Approve(ctx context.Context, userID, comment string) (*entity.Application, error)
	Reject(ctx context.Context, userID, comment string) (*entity.Application, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	TakeDownPost(ctx context.Context, postID string) error
	Stats(ctx context.Context) (*entity.Stats, error)
}

type moderationUseCase struct {
	repo        persistent.ModerationRepository
	redisClient *redis.Client
	publisher   queue.Publisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewModerationUseCase(
	repo persistent.ModerationRepository,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) ModerationUseCase {
	return &moderationUseCase{
		repo:        repo,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

var validStatuses = map[string]bool{
	"pending":  true,
	"approved": true,
	"rejected": true,
}

func (uc *moderationUseCase) ListApplications(ctx context.Context, status string, limit, offset int) ([]*entity.Application, error) {
	if status == "" {
		status = "pending"
	}
	if !validStatuses[status] {
		return nil, entity.ErrInvalidStatus
	}
	return uc.repo.ListApplications(ctx, status, limit, offset)
}

func (uc *moderationUseCase) Approve(ctx context.Context, userID, comment string) (*entity.Application, error) {
	return uc.decide(ctx, userID, entity.DecisionApprove, comment)
}

func (uc *moderationUseCase) Reject(ctx context.Context, userID, comment string) (*entity.Application, error) {
	return uc.decide(ctx, userID, entity.DecisionReject, comment)
}

func (uc *moderationUseCase) decide(ctx context.Context, userID string, decision entity.Decision, comment string) (*entity.Application, error) {
	if err := uc.repo.Decide(ctx, userID, decision, comment, uc.now().UTC()); err != nil {
		return nil, err
	}
	uc.logger.Info("Creator application for %s %s", userID, decision)

	task := queue.NewTask(queue.TaskCreatorReview)
	task.UserID = userID
	task.Data = map[string]string{"status": string(decision), "comment": comment}
	uc.publish(ctx, task)

	return uc.repo.GetApplication(ctx, userID)
}

func (uc *moderationUseCase) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := uc.repo.SetUserActive(ctx, userID, active); err != nil {
		return err
	}
	uc.logger.Info("User %s active=%t", userID, active)
	return nil
}

func (uc *moderationUseCase) TakeDownPost(ctx context.Context, postID string) error {
	if err := uc.repo.DeletePost(ctx, postID); err != nil {
		return err
	}
	if err := cache.Delete(ctx, uc.redisClient, fmt.Sprintf("post:%s", postID), fmt.Sprintf("post:likes:%s", postID)); err != nil {
		uc.logger.Warn("Failed to invalidate cache for post %s: %v", postID, err)
	}
	uc.logger.Info("Post %s taken down", postID)
	return nil
}

func (uc *moderationUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	return uc.repo.Stats(ctx)
}

func (uc *moderationUseCase) publish(ctx context.Context, task queue.Task) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish %s task: %v", task.Type, err)
	}
}
