package usecase

import (
	"context"
	"testing"

	"hookr/pkg/database/dbtest"
	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/interaction/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.social.AddFavorite(ctx, f.viewer.ID, f.model.ID))
	assert.ErrorIs(t, f.social.AddFavorite(ctx, f.viewer.ID, f.model.ID), entity.ErrAlreadyFavorite)

	status, err := f.social.GetFavorite(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.True(t, status.Favorite)

	favorites, err := f.social.ListFavorites(ctx, f.viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, f.model.ID, favorites[0].ModelID)

	require.NoError(t, f.social.RemoveFavorite(ctx, f.viewer.ID, f.model.ID))
	assert.ErrorIs(t, f.social.RemoveFavorite(ctx, f.viewer.ID, f.model.ID), entity.ErrFavoriteNotFound)
}

func TestAddFavorite_UnknownModel(t *testing.T) {
	f := newFixture(t)

	err := f.social.AddFavorite(context.Background(), f.viewer.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, entity.ErrModelNotFound)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.social.ToggleFavorite(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.True(t, status.Favorite)

	status, err = f.social.ToggleFavorite(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.False(t, status.Favorite)
}

func TestCreateReview_UpdatesRating(t *testing.T) {
	f := newFixture(t)
	second := dbtest.CreateUser(t, f.db, "second", models.RoleViewer)
	ctx := context.Background()
	f.mr.Set("model:"+f.model.ID, "{}")

	review, err := f.social.CreateReview(ctx, f.viewer.ID, f.model.ID, 5, " lovely ")
	require.NoError(t, err)
	assert.Equal(t, "viewer", review.UserName)
	assert.Equal(t, "lovely", review.Content)
	assert.False(t, f.mr.Exists("model:"+f.model.ID))

	_, err = f.social.CreateReview(ctx, second.ID, f.model.ID, 4, "")
	require.NoError(t, err)

	var stored models.CreatorProfile
	require.NoError(t, f.db.First(&stored, "id = ?", f.model.ID).Error)
	assert.InDelta(t, 4.5, stored.Rating, 0.001)
	assert.Equal(t, 2, stored.ReviewCount)

	require.Len(t, f.pub.tasks, 2)
	assert.Equal(t, queue.TaskReview, f.pub.tasks[0].Type)
	assert.Equal(t, f.creator.ID, f.pub.tasks[0].UserID)
	assert.Equal(t, "5", f.pub.tasks[0].Data["rating"])

	reviews, err := f.social.ListReviews(ctx, f.model.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestCreateReview_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.social.CreateReview(ctx, f.viewer.ID, f.model.ID, 6, "")
	assert.ErrorIs(t, err, entity.ErrInvalidRating)

	_, err = f.social.CreateReview(ctx, f.creator.ID, f.model.ID, 5, "me")
	assert.ErrorIs(t, err, entity.ErrOwnModel)

	_, err = f.social.CreateReview(ctx, f.viewer.ID, f.model.ID, 3, "")
	require.NoError(t, err)
	_, err = f.social.CreateReview(ctx, f.viewer.ID, f.model.ID, 3, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyReviewed)
}
