package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"hookr/pkg/access"
	"hookr/pkg/database/dbtest"
	"hookr/pkg/logger"
	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/post/internal/entity"
	"hookr/services/post/internal/repo/persistent"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
}

func (f *fakeStorage) UploadFile(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

type recordingPublisher struct {
	tasks []queue.Task
}

func (p *recordingPublisher) Publish(_ context.Context, task queue.Task) error {
	p.tasks = append(p.tasks, task)
	return nil
}

type fixture struct {
	uc      PostUseCase
	db      *gorm.DB
	mr      *miniredis.Miniredis
	storage *fakeStorage
	pub     *recordingPublisher
	creator *models.User
	model   *models.CreatorProfile
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	f := &fixture{db: db, mr: mr, storage: &fakeStorage{}, pub: &recordingPublisher{}}
	f.uc = NewPostUseCase(
		persistent.NewPostRepository(db),
		access.NewChecker(db),
		f.storage,
		redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		f.pub,
		logger.NewWithWriter(io.Discard, "error"),
	)
	f.creator = dbtest.CreateUser(t, db, "creator", models.RoleCreator)
	f.model = dbtest.CreateModel(t, db, f.creator.ID, "Creator")
	return f
}

func (f *fixture) create(t *testing.T, premium bool) *entity.Post {
	t.Helper()
	post, err := f.uc.CreatePost(context.Background(), f.creator.ID, entity.NewPost{
		Content:     "hello",
		IsPremium:   premium,
		Tags:        []string{"Beach", "beach", " sunset "},
		Filename:    "clip.MP4",
		ContentType: "video/mp4",
		Media:       strings.NewReader("bytes"),
	})
	require.NoError(t, err)
	return post
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	post := f.create(t, false)

	assert.Equal(t, f.model.ID, post.ModelID)
	assert.Equal(t, entity.MediaVideo, post.MediaType)
	assert.Equal(t, []string{"beach", "sunset"}, post.Tags)
	require.Len(t, f.storage.uploads, 1)
	assert.True(t, strings.HasPrefix(f.storage.uploads[0], "posts/"+f.model.ID+"/"))
	assert.True(t, strings.HasSuffix(f.storage.uploads[0], ".mp4"))
	assert.True(t, f.mr.Exists("post:"+post.ID))

	require.Len(t, f.pub.tasks, 1)
	task := f.pub.tasks[0]
	assert.Equal(t, queue.TaskNewPost, task.Type)
	assert.Equal(t, 5, task.Priority)
	assert.Equal(t, f.model.ID, task.ModelID)
	assert.Equal(t, post.ID, task.PostID)
}

func TestCreatePost_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreatePost(ctx, f.creator.ID, entity.NewPost{Filename: "a.pdf", ContentType: "application/pdf", Media: strings.NewReader("x")})
	assert.ErrorIs(t, err, entity.ErrUnsupportedMedia)

	other := dbtest.CreateUser(t, f.db, "nomodel", models.RoleCreator)
	_, err = f.uc.CreatePost(ctx, other.ID, entity.NewPost{Filename: "a.jpg", ContentType: "image/jpeg", Media: strings.NewReader("x")})
	assert.ErrorIs(t, err, entity.ErrModelRequired)
	assert.Empty(t, f.storage.uploads)
}

func TestGetPost_PremiumGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.create(t, true)
	viewer := dbtest.CreateUser(t, f.db, "viewer", models.RoleViewer)

	locked, err := f.uc.GetPost(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Empty(t, locked.MediaURL)

	own, err := f.uc.GetPost(ctx, post.ID, f.creator.ID)
	require.NoError(t, err)
	assert.False(t, own.Locked)
	assert.NotEmpty(t, own.MediaURL)

	require.NoError(t, f.db.Create(&models.Subscription{
		ViewerID:  viewer.ID,
		ModelID:   f.model.ID,
		CreatorID: f.creator.ID,
		Tier:      models.TierMonthly,
		Status:    models.SubscriptionCancelled,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}).Error)

	unlocked, err := f.uc.GetPost(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)
	assert.Equal(t, own.MediaURL, unlocked.MediaURL)
	assert.Equal(t, []string{"beach", "sunset"}, unlocked.Tags)
}

func TestGetPost_FromDatabaseWhenCacheEmpty(t *testing.T) {
	f := newFixture(t)
	post := f.create(t, false)
	f.mr.FlushAll()

	got, err := f.uc.GetPost(context.Background(), post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.True(t, f.mr.Exists("post:"+post.ID))

	_, err = f.uc.GetPost(context.Background(), "missing", "")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	f := newFixture(t)
	f.create(t, false)
	f.create(t, true)

	premium := true
	posts, err := f.uc.ListPosts(context.Background(), "someone", entity.ListFilter{IsPremium: &premium, Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Locked)

	all, err := f.uc.ListPosts(context.Background(), "someone", entity.ListFilter{ModelID: f.model.ID, MediaType: entity.MediaVideo, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateAndDeletePost_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.create(t, false)
	stranger := dbtest.CreateUser(t, f.db, "stranger", models.RoleCreator)

	content := "edited"
	_, err := f.uc.UpdatePost(ctx, post.ID, stranger.ID, entity.PostUpdate{Content: &content})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	tags := []string{"Night"}
	premium := true
	updated, err := f.uc.UpdatePost(ctx, post.ID, f.creator.ID, entity.PostUpdate{Content: &content, IsPremium: &premium, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.True(t, updated.IsPremium)
	assert.Equal(t, []string{"night"}, updated.Tags)
	assert.False(t, f.mr.Exists("post:"+post.ID))

	assert.ErrorIs(t, f.uc.DeletePost(ctx, post.ID, stranger.ID), entity.ErrForbidden)
	require.NoError(t, f.uc.DeletePost(ctx, post.ID, f.creator.ID))
	assert.Equal(t, f.storage.uploads, f.storage.deletes)

	_, err = f.uc.GetPost(ctx, post.ID, f.creator.ID)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestRecordView_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.create(t, false)

	counted, err := f.uc.RecordView(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = f.uc.RecordView(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = f.uc.RecordView(ctx, post.ID, "viewer-2")
	require.NoError(t, err)
	assert.True(t, counted)

	assert.Equal(t, "2", f.mr.HGet("post:"+post.ID, "views"))

	var stored models.Post
	require.NoError(t, f.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, 2, stored.Views)

	f.mr.FastForward(25 * time.Hour)
	counted, err = f.uc.RecordView(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.True(t, counted)
}
