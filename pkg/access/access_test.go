package access

import (
	"context"
	"testing"
	"time"

	"hookr/pkg/database/dbtest"
	"hookr/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	owner, model string
	premium      bool
	locked       bool
}

func (i *item) Owner() string { return i.owner }
func (i *item) Model() string { return i.model }
func (i *item) Premium() bool { return i.premium }
func (i *item) Lock()         { i.locked = true }

func TestApply(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewChecker(db)
	c.now = func() time.Time { return now }

	subs := []models.Subscription{
		{ViewerID: "viewer", ModelID: "paid", CreatorID: "c1", Tier: models.TierMonthly, Status: models.SubscriptionActive, ExpiresAt: now.Add(time.Hour)},
		{ViewerID: "viewer", ModelID: "cancelled", CreatorID: "c2", Tier: models.TierMonthly, Status: models.SubscriptionCancelled, ExpiresAt: now.Add(time.Hour)},
		{ViewerID: "viewer", ModelID: "expired", CreatorID: "c3", Tier: models.TierMonthly, Status: models.SubscriptionActive, ExpiresAt: now.Add(-time.Hour)},
	}
	require.NoError(t, db.Create(&subs).Error)

	items := []*item{
		{owner: "c1", model: "paid", premium: true},
		{owner: "c2", model: "cancelled", premium: true},
		{owner: "c3", model: "expired", premium: true},
		{owner: "c4", model: "stranger", premium: true},
		{owner: "c4", model: "stranger", premium: false},
		{owner: "viewer", model: "own", premium: true},
	}
	require.NoError(t, Apply(ctx, c, "viewer", items))

	locked := make([]bool, len(items))
	for i, it := range items {
		locked[i] = it.locked
	}
	assert.Equal(t, []bool{false, false, true, true, false, false}, locked)

	ok, err := c.HasAccess(ctx, "viewer", "cancelled")
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := c.ActiveModelIDs(ctx, "viewer")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"paid", "cancelled"}, ids)
}

func TestStoredRole(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	checker := NewChecker(db)

	user := dbtest.CreateUser(t, db, "newcreator", models.RoleViewer)
	role, err := checker.StoredRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "viewer", role)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleCreator).Error)
	role, err = checker.StoredRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "creator", role)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	role, err = checker.StoredRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, role)

	role, err = checker.StoredRole(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, role)
}
