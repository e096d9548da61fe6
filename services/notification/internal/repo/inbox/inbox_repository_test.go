package inbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"hookr/pkg/logger"
	"hookr/services/notification/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (InboxRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return NewInboxRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), logger.NewWithWriter(io.Discard, "error")), mr
}

// publishOutage fails every PUBLISH and lets other commands through.
type publishOutage struct{}

func (publishOutage) DialHook(next redis.DialHook) redis.DialHook { return next }

func (publishOutage) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "publish" {
			cmd.SetErr(errors.New("publish unavailable"))
			return cmd.Err()
		}
		return next(ctx, cmd)
	}
}

func (publishOutage) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPushTrimsAndExpires(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	for i := 0; i < MaxItems+5; i++ {
		require.NoError(t, repo.Push(ctx, &entity.Notification{ID: fmt.Sprint(i), UserID: "u1", Type: entity.TypeLike}))
	}

	items, total, err := repo.List(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxItems), total)
	require.Len(t, items, 10)
	assert.Equal(t, fmt.Sprint(MaxItems+4), items[0].ID)
	assert.Equal(t, TTL, mr.TTL(ListKey("u1")))
}

func TestPush_PublishFailureKeepsSingleEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client.AddHook(publishOutage{})
	repo := NewInboxRepository(client, logger.NewWithWriter(io.Discard, "error"))
	ctx := context.Background()

	require.NoError(t, repo.Push(ctx, &entity.Notification{ID: "n1", UserID: "u1", Type: entity.TypeTip}))

	items, total, err := repo.List(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)
}

func TestDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Push(ctx, &entity.Notification{ID: "a", UserID: "u1"}))
	require.NoError(t, repo.Push(ctx, &entity.Notification{ID: "b", UserID: "u1"}))

	require.NoError(t, repo.Delete(ctx, "u1", "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "a"), entity.ErrNotificationNotFound)

	items, err := repo.All(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestReadMarker(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	at, err := repo.ReadAt(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	now := time.Date(2025, 5, 2, 10, 0, 0, 123, time.UTC)
	require.NoError(t, repo.MarkRead(ctx, "u1", now))
	at, err = repo.ReadAt(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, now.Equal(at))
}

func TestSettings(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	enabled, err := repo.Enabled(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, repo.SetEnabled(ctx, "u1", "m1", false))
	got, err := mr.Get("notification_settings:u1:m1")
	require.NoError(t, err)
	assert.Equal(t, "off", got)

	enabled, err = repo.Enabled(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.False(t, enabled)
}
