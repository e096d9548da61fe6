package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"hookr/pkg/access"
	"hookr/pkg/database/dbtest"
	"hookr/pkg/logger"
	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/interaction/internal/entity"
	"hookr/services/interaction/internal/repo/persistent"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	tasks []queue.Task
}

func (p *recordingPublisher) Publish(_ context.Context, task queue.Task) error {
	p.tasks = append(p.tasks, task)
	return nil
}

type fixture struct {
	interactions InteractionUseCase
	social       SocialUseCase
	db           *gorm.DB
	mr           *miniredis.Miniredis
	pub          *recordingPublisher
	creator      *models.User
	viewer       *models.User
	model        *models.CreatorProfile
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := logger.NewWithWriter(io.Discard, "error")

	f := &fixture{db: db, mr: mr, pub: &recordingPublisher{}}
	postRepo := persistent.NewPostRepository(db)
	f.interactions = NewInteractionUseCase(persistent.NewInteractionRepository(db), postRepo, access.NewChecker(db), redisClient, f.pub, log)
	f.social = NewSocialUseCase(persistent.NewSocialRepository(db), postRepo, redisClient, f.pub, log)

	f.creator = dbtest.CreateUser(t, db, "creator", models.RoleCreator)
	f.viewer = dbtest.CreateUser(t, db, "viewer", models.RoleViewer)
	f.model = dbtest.CreateModel(t, db, f.creator.ID, "Creator")
	return f
}

func (f *fixture) post(t *testing.T, premium bool) *models.Post {
	t.Helper()
	post := &models.Post{
		ModelID:   f.model.ID,
		CreatorID: f.creator.ID,
		Content:   "hello",
		MediaURL:  "https://cdn.test/posts/a.jpg",
		MediaType: models.MediaTypeImage,
		IsPremium: premium,
	}
	require.NoError(t, f.db.Create(post).Error)
	return post
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, false)
	ctx := context.Background()
	f.mr.Set("post:"+post.ID, "cached")

	status, err := f.interactions.ToggleLike(ctx, f.viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(1), status.LikesCount)

	count, err := f.mr.Get("post:likes:" + post.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", count)
	assert.False(t, f.mr.Exists("post:"+post.ID))

	require.Len(t, f.pub.tasks, 1)
	assert.Equal(t, queue.TaskLike, f.pub.tasks[0].Type)
	assert.Equal(t, f.creator.ID, f.pub.tasks[0].UserID)
	assert.Equal(t, f.viewer.ID, f.pub.tasks[0].ActorID)

	status, err = f.interactions.ToggleLike(ctx, f.viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(0), status.LikesCount)
	assert.Len(t, f.pub.tasks, 1)

	// liking again restores the soft-deleted row
	status, err = f.interactions.ToggleLike(ctx, f.viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)

	var rows int64
	f.db.Unscoped().Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestToggleLike_OwnPostNotNotified(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, false)

	_, err := f.interactions.ToggleLike(context.Background(), f.creator.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, f.pub.tasks)
}

func TestToggleLike_PostNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.interactions.ToggleLike(context.Background(), f.viewer.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestGetLikeStatus_FallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, false)
	ctx := context.Background()

	_, err := f.interactions.ToggleLike(ctx, f.viewer.ID, post.ID)
	require.NoError(t, err)
	f.mr.Del("post:likes:" + post.ID)

	status, err := f.interactions.GetLikeStatus(ctx, f.viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(1), status.LikesCount)
	assert.True(t, f.mr.Exists("post:likes:"+post.ID))
}

func TestGetLikedPosts_LocksPremiumWithoutSubscription(t *testing.T) {
	f := newFixture(t)
	free := f.post(t, false)
	premium := f.post(t, true)
	ctx := context.Background()

	_, err := f.interactions.ToggleLike(ctx, f.viewer.ID, free.ID)
	require.NoError(t, err)
	_, err = f.interactions.ToggleLike(ctx, f.viewer.ID, premium.ID)
	require.NoError(t, err)

	posts, err := f.interactions.GetLikedPosts(ctx, f.viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byID := map[string]*entity.LikedPost{}
	for _, p := range posts {
		byID[p.ID] = p
	}
	assert.False(t, byID[free.ID].Locked)
	assert.True(t, byID[premium.ID].Locked)
	assert.Empty(t, byID[premium.ID].MediaURL)

	require.NoError(t, f.db.Create(&models.Subscription{
		ViewerID:  f.viewer.ID,
		ModelID:   f.model.ID,
		CreatorID: f.creator.ID,
		Tier:      models.TierMonthly,
		Status:    models.SubscriptionActive,
		StartedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)

	posts, err = f.interactions.GetLikedPosts(ctx, f.viewer.ID, 20, 0)
	require.NoError(t, err)
	for _, p := range posts {
		assert.False(t, p.Locked)
	}
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, false)
	ctx := context.Background()

	first, err := f.interactions.AddComment(ctx, f.viewer.ID, post.ID, "  first  ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Content)
	_, err = f.interactions.AddComment(ctx, f.viewer.ID, post.ID, "second")
	require.NoError(t, err)

	require.Len(t, f.pub.tasks, 2)
	assert.Equal(t, queue.TaskComment, f.pub.tasks[0].Type)
	assert.Equal(t, first.ID, f.pub.tasks[0].ReferenceID)

	comments, err := f.interactions.ListComments(ctx, post.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "viewer", comments[0].Username)

	var stored models.Post
	require.NoError(t, f.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, 2, stored.CommentsCount)
}

func TestDeleteComment_Permissions(t *testing.T) {
	f := newFixture(t)
	post := f.post(t, false)
	other := dbtest.CreateUser(t, f.db, "other", models.RoleViewer)
	ctx := context.Background()

	comment, err := f.interactions.AddComment(ctx, f.viewer.ID, post.ID, "hi")
	require.NoError(t, err)

	err = f.interactions.DeleteComment(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	// the post owner may moderate comments on their post
	require.NoError(t, f.interactions.DeleteComment(ctx, f.creator.ID, comment.ID))

	err = f.interactions.DeleteComment(ctx, f.viewer.ID, comment.ID)
	assert.ErrorIs(t, err, entity.ErrCommentNotFound)

	var stored models.Post
	require.NoError(t, f.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, 0, stored.CommentsCount)
}
