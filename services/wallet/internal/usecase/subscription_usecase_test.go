package usecase

import (
	"context"
	"testing"
	"time"

	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/wallet/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiers(t *testing.T) {
	f := newFixture(t)

	tiers := f.subscriptions.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, entity.TierMonthly, tiers[0].ID)
	assert.Equal(t, int64(1999), tiers[0].PriceCents)
	assert.Equal(t, 90, tiers[1].DurationDays)
	assert.Equal(t, "Yearly VIP", tiers[2].Name)
	assert.Len(t, tiers[2].Benefits, 4)

	tiers[0].PriceCents = 1
	assert.Equal(t, int64(1999), f.subscriptions.Tiers()[0].PriceCents)
}

func TestSubscribe_InsufficientFundsLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.wallets.TopUp(ctx, f.viewer.ID, 1000)
	require.NoError(t, err)

	_, err = f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "monthly")
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)

	var subs int64
	f.db.Model(&models.Subscription{}).Count(&subs)
	assert.Zero(t, subs)
	assert.Equal(t, int64(1000), f.balance(t, f.viewer.ID))
	assert.Zero(t, f.balance(t, f.creator.ID))
	assert.Empty(t, f.pub.tasks)
}

func TestSubscribe_ChargesAndRenews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mr.Set("feed:user:"+f.viewer.ID+":0:20", "[]")

	_, err := f.wallets.TopUp(ctx, f.viewer.ID, 10000)
	require.NoError(t, err)

	first, err := f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "monthly")
	require.NoError(t, err)
	assert.False(t, first.Renewal)
	assert.Equal(t, int64(10000-1999), first.Wallet.BalanceCents)
	assert.WithinDuration(t, f.clock.Add(30*24*time.Hour), first.Subscription.ExpiresAt, time.Second)
	assert.False(t, f.mr.Exists("feed:user:"+f.viewer.ID+":0:20"))

	second, err := f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "monthly")
	require.NoError(t, err)
	assert.True(t, second.Renewal)
	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)
	assert.WithinDuration(t, f.clock.Add(60*24*time.Hour), second.Subscription.ExpiresAt, time.Second)

	assert.Equal(t, int64(2*1999), f.balance(t, f.creator.ID))

	creatorTxs, err := f.wallets.GetTransactions(ctx, f.creator.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, creatorTxs, 2)
	assert.Equal(t, entity.TransactionEarning, creatorTxs[0].Type)

	require.Len(t, f.pub.tasks, 2)
	assert.Equal(t, queue.TaskSubscription, f.pub.tasks[0].Type)
	assert.Equal(t, f.creator.ID, f.pub.tasks[0].UserID)
	assert.Equal(t, "false", f.pub.tasks[0].Data["renewal"])
	assert.Equal(t, "true", f.pub.tasks[1].Data["renewal"])
}

func TestSubscribe_AfterExpiryStartsFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.wallets.TopUp(ctx, f.viewer.ID, 10000)
	require.NoError(t, err)

	_, err = f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "monthly")
	require.NoError(t, err)

	f.clock = f.clock.Add(40 * 24 * time.Hour)
	result, err := f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "quarterly")
	require.NoError(t, err)
	assert.False(t, result.Renewal)
	assert.Equal(t, entity.TierQuarterly, result.Subscription.Tier)
	assert.WithinDuration(t, f.clock.Add(90*24*time.Hour), result.Subscription.ExpiresAt, time.Second)
	assert.WithinDuration(t, f.clock, result.Subscription.StartedAt, time.Second)
}

func TestSubscribe_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "weekly")
	assert.ErrorIs(t, err, entity.ErrInvalidTier)

	_, err = f.subscriptions.Subscribe(ctx, f.creator.ID, f.model.ID, "monthly")
	assert.ErrorIs(t, err, entity.ErrOwnModel)

	_, err = f.subscriptions.Subscribe(ctx, f.viewer.ID, "00000000-0000-0000-0000-000000000000", "monthly")
	assert.ErrorIs(t, err, entity.ErrModelNotFound)
}

func TestCancel_KeepsAccessUntilExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.wallets.TopUp(ctx, f.viewer.ID, 10000)
	require.NoError(t, err)
	_, err = f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "monthly")
	require.NoError(t, err)

	sub, err := f.subscriptions.Cancel(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, sub.Status)
	assert.True(t, sub.HasAccess)

	_, err = f.subscriptions.Cancel(ctx, f.viewer.ID, f.model.ID)
	assert.ErrorIs(t, err, entity.ErrSubscriptionNotFound)

	state, err := f.subscriptions.GetState(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.True(t, state.Subscribed)
	assert.Equal(t, entity.StatusCancelled, state.Status)

	f.clock = f.clock.Add(31 * 24 * time.Hour)
	state, err = f.subscriptions.GetState(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	assert.False(t, state.Subscribed)
	assert.Nil(t, state.ExpiresAt)
}

func TestListSubscriptionsAndSubscribers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.wallets.TopUp(ctx, f.viewer.ID, 20000)
	require.NoError(t, err)
	_, err = f.subscriptions.Subscribe(ctx, f.viewer.ID, f.model.ID, "yearly")
	require.NoError(t, err)

	subs, err := f.subscriptions.ListSubscriptions(ctx, f.viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Creator", subs[0].ModelName)
	assert.True(t, subs[0].HasAccess)

	subscribers, err := f.subscriptions.ListSubscribers(ctx, f.creator.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, "viewer", subscribers[0].Username)
	assert.Equal(t, entity.TierYearly, subscribers[0].Tier)

	_, err = f.subscriptions.Cancel(ctx, f.viewer.ID, f.model.ID)
	require.NoError(t, err)
	subscribers, err = f.subscriptions.ListSubscribers(ctx, f.creator.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, subscribers)
}
