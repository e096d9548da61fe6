package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, RoleViewer, user.Role)
	assert.Equal(t, CreatorNotApplied, user.CreatorStatus)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	user := &User{ID: "existing-id-123", Role: RoleAdmin}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, "existing-id-123", user.ID)
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestBeforeCreate_AssignsIDs(t *testing.T) {
	post := &Post{ModelID: "m1", MediaType: MediaTypeImage}
	like := &Like{UserID: "u1", PostID: "p1"}
	fav := &Favorite{UserID: "u1", ModelID: "m1"}
	msg := &Message{ConversationID: "c1"}

	assert.NoError(t, post.BeforeCreate(nil))
	assert.NoError(t, like.BeforeCreate(nil))
	assert.NoError(t, fav.BeforeCreate(nil))
	assert.NoError(t, msg.BeforeCreate(nil))

	for _, id := range []string{post.ID, like.ID, fav.ID, msg.ID} {
		assert.Len(t, id, 36)
	}
}

func TestSubscription_HasAccess(t *testing.T) {
	now := time.Now()
	var missing *Subscription

	assert.False(t, missing.HasAccess(now))
	assert.True(t, (&Subscription{Status: SubscriptionCancelled, ExpiresAt: now.Add(time.Hour)}).HasAccess(now))
	assert.False(t, (&Subscription{Status: SubscriptionActive, ExpiresAt: now.Add(-time.Hour)}).HasAccess(now))
}

func TestOrderedPair(t *testing.T) {
	a, b := OrderedPair("b-user", "a-user")
	assert.Equal(t, "a-user", a)
	assert.Equal(t, "b-user", b)

	a, b = OrderedPair("a-user", "b-user")
	assert.Equal(t, "a-user", a)
	assert.Equal(t, "b-user", b)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "models", CreatorProfile{}.TableName())
	assert.Equal(t, "model_availability", ModelAvailability{}.TableName())
	assert.Len(t, All(), 15)
}
