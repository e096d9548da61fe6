package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hookr/pkg/access"
	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/services/interaction/internal/entity"
	"hookr/services/interaction/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type InteractionUseCase interface {
	ToggleLike(ctx context.Context, userID, postID string) (*entity.LikeStatus, error)
	GetLikeStatus(ctx context.Context, userID, postID string) (*entity.LikeStatus, error)
	GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.LikedPost, error)
	AddComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error)
	ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID string) error
}

type interactionUseCase struct {
	interactionRepo persistent.InteractionRepository
	postRepo        persistent.PostRepository
	access          *access.Checker
	redisClient     *redis.Client
	publisher       queue.Publisher
	logger          *logger.Logger
}

func NewInteractionUseCase(
	interactionRepo persistent.InteractionRepository,
	postRepo persistent.PostRepository,
	checker *access.Checker,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) InteractionUseCase {
	return &interactionUseCase{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		access:          checker,
		redisClient:     redisClient,
		publisher:       publisher,
		logger:          logger,
	}
}

func likeCountKey(postID string) string {
	return fmt.Sprintf("post:likes:%s", postID)
}

func (uc *interactionUseCase) ToggleLike(ctx context.Context, userID, postID string) (*entity.LikeStatus, error) {
	post, err := uc.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	status, err := uc.interactionRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		uc.logger.Error("Failed to toggle like: %v", err)
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	if uc.redisClient != nil {
		uc.redisClient.Set(ctx, likeCountKey(postID), status.LikesCount, 0)
	}
	uc.invalidatePost(ctx, postID)

	if status.Liked && post.CreatorID != userID {
		task := queue.NewTask(queue.TaskLike)
		task.UserID = post.CreatorID
		task.ActorID = userID
		task.PostID = postID
		task.ModelID = post.ModelID
		uc.publish(ctx, task)
	}
	return status, nil
}

func (uc *interactionUseCase) GetLikeStatus(ctx context.Context, userID, postID string) (*entity.LikeStatus, error) {
	liked, err := uc.interactionRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	count, err := uc.likeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &entity.LikeStatus{Liked: liked, LikesCount: count}, nil
}

func (uc *interactionUseCase) likeCount(ctx context.Context, postID string) (int64, error) {
	key := likeCountKey(postID)
	if uc.redisClient != nil {
		countStr, err := uc.redisClient.Get(ctx, key).Result()
		if err == nil {
			if count, err := strconv.ParseInt(countStr, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := uc.interactionRepo.GetLikeCount(ctx, postID)
	if err != nil {
		return 0, err
	}
	if uc.redisClient != nil {
		uc.redisClient.Set(ctx, key, count, 0)
	}
	return count, nil
}

func (uc *interactionUseCase) GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.LikedPost, error) {
	posts, err := uc.interactionRepo.GetLikedPosts(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := access.Apply(ctx, uc.access, userID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (uc *interactionUseCase) AddComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error) {
	content = strings.TrimSpace(content)
	post, err := uc.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := uc.interactionRepo.CreateComment(ctx, postID, userID, content)
	if err != nil {
		uc.logger.Error("Failed to create comment: %v", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	uc.invalidatePost(ctx, postID)

	if post.CreatorID != userID {
		task := queue.NewTask(queue.TaskComment)
		task.UserID = post.CreatorID
		task.ActorID = userID
		task.PostID = postID
		task.ReferenceID = comment.ID
		task.Message = preview(content, 80)
		uc.publish(ctx, task)
	}
	return comment, nil
}

func (uc *interactionUseCase) ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	if _, err := uc.postRepo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return uc.interactionRepo.ListComments(ctx, postID, limit, offset)
}

// DeleteComment lets the author or the owner of the post remove a comment.
func (uc *interactionUseCase) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := uc.interactionRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		post, err := uc.postRepo.GetPost(ctx, comment.PostID)
		if err != nil && !errors.Is(err, entity.ErrPostNotFound) {
			return err
		}
		if post == nil || post.CreatorID != userID {
			return entity.ErrForbidden
		}
	}

	if err := uc.interactionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	uc.invalidatePost(ctx, comment.PostID)
	return nil
}

func (uc *interactionUseCase) invalidatePost(ctx context.Context, postID string) {
	if err := cache.Delete(ctx, uc.redisClient, fmt.Sprintf("post:%s", postID)); err != nil {
		uc.logger.Warn("Failed to invalidate cache for post %s: %v", postID, err)
	}
}

func (uc *interactionUseCase) publish(ctx context.Context, task queue.Task) {
	if uc.publisher == nil {
		return
	}
	uc.logger.Info("[NOTIFICATION QUEUE] Publishing %s task: user_id=%s, actor_id=%s", task.Type, task.UserID, task.ActorID)
	if err := uc.publisher.Publish(ctx, task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish %s task: %v", task.Type, err)
	}
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
