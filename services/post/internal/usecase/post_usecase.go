package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hookr/pkg/access"
	"hookr/pkg/cache"
	"hookr/pkg/logger"
	"hookr/pkg/queue"
	"hookr/pkg/s3"
	"hookr/pkg/validation"
	"hookr/services/post/internal/entity"
	"hookr/services/post/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const (
	postCacheTTL   = time.Hour
	viewDedupeTTL  = 24 * time.Hour
	postCacheField = "id"
)

type PostUseCase interface {
	CreatePost(ctx context.Context, userID string, in entity.NewPost) (*entity.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error)
	ListPosts(ctx context.Context, viewerID string, f entity.ListFilter) ([]*entity.Post, error)
	UpdatePost(ctx context.Context, postID, userID string, update entity.PostUpdate) (*entity.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	RecordView(ctx context.Context, postID, userID string) (bool, error)
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	access      *access.Checker
	storage     s3.Storage
	redisClient *redis.Client
	publisher   queue.Publisher
	logger      *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	checker *access.Checker,
	storage s3.Storage,
	redisClient *redis.Client,
	publisher queue.Publisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		access:      checker,
		storage:     storage,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID string, in entity.NewPost) (*entity.Post, error) {
	mediaType, ok := s3.MediaType(in.ContentType)
	if !ok {
		return nil, entity.ErrUnsupportedMedia
	}
	tags := validation.NormalizeTags(in.Tags)
	if len(tags) > validation.MaxTags {
		return nil, entity.ErrTooManyTags
	}

	modelID, err := uc.postRepo.ModelIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := s3.ObjectKey("posts", modelID, in.Filename)
	mediaURL, err := uc.storage.UploadFile(ctx, key, in.Media, in.ContentType)
	if err != nil {
		uc.logger.Error("Failed to upload post media: %v", err)
		return nil, fmt.Errorf("failed to upload media")
	}

	post := &entity.Post{
		ModelID:   modelID,
		CreatorID: userID,
		Content:   in.Content,
		MediaURL:  mediaURL,
		MediaKey:  key,
		MediaType: entity.MediaType(mediaType),
		IsPremium: in.IsPremium,
		Tags:      tags,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		if delErr := uc.storage.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned media %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.cachePost(ctx, post)
	uc.publishNewPost(ctx, post)
	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error) {
	post, ok := uc.cachedPost(ctx, postID)
	if !ok {
		var err error
		post, err = uc.postRepo.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		uc.cachePost(ctx, post)
	}

	if err := access.Apply(ctx, uc.access, viewerID, []*entity.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, viewerID string, f entity.ListFilter) ([]*entity.Post, error) {
	posts, err := uc.postRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := access.Apply(ctx, uc.access, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, postID, userID string, update entity.PostUpdate) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != userID {
		return nil, entity.ErrForbidden
	}

	if update.Tags != nil {
		tags := validation.NormalizeTags(*update.Tags)
		if len(tags) > validation.MaxTags {
			return nil, entity.ErrTooManyTags
		}
		update.Tags = &tags
	}

	if err := uc.postRepo.Update(ctx, postID, update); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, postID)

	return uc.postRepo.GetByID(ctx, postID)
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != userID {
		return entity.ErrForbidden
	}

	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	uc.invalidate(ctx, postID)

	if post.MediaKey != "" {
		if err := uc.storage.DeleteFile(ctx, post.MediaKey); err != nil {
			uc.logger.Warn("Failed to delete media %s for post %s: %v", post.MediaKey, postID, err)
		}
	}
	uc.logger.Info("Post %s deleted by %s", postID, userID)
	return nil
}

// RecordView counts at most one view per user and post per day. It reports whether this call counted.
func (uc *postUseCase) RecordView(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}

	if uc.redisClient != nil {
		key := fmt.Sprintf("post_viewed:%s:%s", postID, userID)
		first, err := uc.redisClient.SetNX(ctx, key, 1, viewDedupeTTL).Result()
		if err != nil {
			uc.logger.Warn("View dedupe failed for post %s: %v", postID, err)
		} else if !first {
			return false, nil
		}
	}

	if err := uc.postRepo.IncrementViews(ctx, postID); err != nil {
		return false, err
	}

	if uc.redisClient != nil {
		postKey := postCacheKey(postID)
		if n, _ := uc.redisClient.Exists(ctx, postKey).Result(); n > 0 {
			uc.redisClient.HIncrBy(ctx, postKey, "views", 1)
		}
	}
	return true, nil
}

func postCacheKey(id string) string {
	return fmt.Sprintf("post:%s", id)
}

func (uc *postUseCase) cachePost(ctx context.Context, post *entity.Post) {
	if uc.redisClient == nil {
		return
	}
	tagsJSON, _ := json.Marshal(post.Tags)
	postKey := postCacheKey(post.ID)
	postData := map[string]interface{}{
		"id":             post.ID,
		"model_id":       post.ModelID,
		"creator_id":     post.CreatorID,
		"content":        post.Content,
		"media_url":      post.MediaURL,
		"media_key":      post.MediaKey,
		"media_type":     string(post.MediaType),
		"is_premium":     strconv.FormatBool(post.IsPremium),
		"likes_count":    post.LikesCount,
		"comments_count": post.CommentsCount,
		"views":          post.Views,
		"tags":           string(tagsJSON),
		"created_at":     post.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":     post.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	pipe := uc.redisClient.TxPipeline()
	pipe.HSet(ctx, postKey, postData)
	pipe.Expire(ctx, postKey, postCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		uc.logger.Warn("Failed to cache post %s: %v", post.ID, err)
	}
}

func (uc *postUseCase) cachedPost(ctx context.Context, postID string) (*entity.Post, bool) {
	if uc.redisClient == nil {
		return nil, false
	}
	data, err := uc.redisClient.HGetAll(ctx, postCacheKey(postID)).Result()
	if err != nil || data[postCacheField] == "" {
		return nil, false
	}

	post, err := decodeCachedPost(data)
	if err != nil {
		uc.logger.Warn("Dropping unreadable cache entry for post %s: %v", postID, err)
		uc.invalidate(ctx, postID)
		return nil, false
	}
	return post, true
}

func decodeCachedPost(data map[string]string) (*entity.Post, error) {
	post := &entity.Post{
		ID:        data["id"],
		ModelID:   data["model_id"],
		CreatorID: data["creator_id"],
		Content:   data["content"],
		MediaURL:  data["media_url"],
		MediaKey:  data["media_key"],
		MediaType: entity.MediaType(data["media_type"]),
	}

	var err error
	if post.IsPremium, err = strconv.ParseBool(data["is_premium"]); err != nil {
		return nil, err
	}
	if post.LikesCount, err = strconv.Atoi(data["likes_count"]); err != nil {
		return nil, err
	}
	if post.CommentsCount, err = strconv.Atoi(data["comments_count"]); err != nil {
		return nil, err
	}
	if post.Views, err = strconv.Atoi(data["views"]); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(data["tags"]), &post.Tags); err != nil {
		return nil, err
	}
	if post.CreatedAt, err = time.Parse(time.RFC3339Nano, data["created_at"]); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = time.Parse(time.RFC3339Nano, data["updated_at"]); err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}

func (uc *postUseCase) invalidate(ctx context.Context, postID string) {
	if err := cache.Delete(ctx, uc.redisClient, postCacheKey(postID)); err != nil && !errors.Is(err, redis.Nil) {
		uc.logger.Warn("Failed to invalidate cache for post %s: %v", postID, err)
	}
}

func (uc *postUseCase) publishNewPost(ctx context.Context, post *entity.Post) {
	if uc.publisher == nil {
		return
	}

	task := queue.NewTask(queue.TaskNewPost)
	task.ActorID = post.CreatorID
	task.ModelID = post.ModelID
	task.PostID = post.ID
	task.Data = map[string]string{
		"media_type": string(post.MediaType),
		"is_premium": strconv.FormatBool(post.IsPremium),
	}

	uc.logger.Info("[NOTIFICATION QUEUE] Publishing new_post task: post_id=%s, model_id=%s", post.ID, post.ModelID)
	if err := uc.publisher.Publish(ctx, task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish new_post task: %v (post_id=%s)", err, post.ID)
	}
}
