package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"hookr/pkg/database/dbtest"
	"hookr/pkg/logger"
	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/wallet/internal/entity"
	"hookr/services/wallet/internal/repo/persistent"

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
	wallets       WalletUseCase
	subscriptions *subscriptionUseCase
	db            *gorm.DB
	mr            *miniredis.Miniredis
	pub           *recordingPublisher
	clock         time.Time
	creator       *models.User
	viewer        *models.User
	model         *models.CreatorProfile
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := logger.NewWithWriter(io.Discard, "error")

	f := &fixture{db: db, mr: mr, pub: &recordingPublisher{}, clock: time.Now()}
	walletRepo := persistent.NewWalletRepository(db)
	f.wallets = NewWalletUseCase(walletRepo, f.pub, log)
	f.subscriptions = NewSubscriptionUseCase(persistent.NewSubscriptionRepository(db), walletRepo, redisClient, f.pub, log).(*subscriptionUseCase)
	f.subscriptions.now = func() time.Time { return f.clock }

	f.creator = dbtest.CreateUser(t, db, "creator", models.RoleCreator)
	f.viewer = dbtest.CreateUser(t, db, "viewer", models.RoleViewer)
	f.model = dbtest.CreateModel(t, db, f.creator.ID, "Creator")
	return f
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	wallet, err := f.wallets.GetWallet(context.Background(), userID)
	require.NoError(t, err)
	return wallet.BalanceCents
}

func TestGetWallet_CreatesEmpty(t *testing.T) {
	f := newFixture(t)

	wallet, err := f.wallets.GetWallet(context.Background(), f.viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.BalanceCents)

	again, err := f.wallets.GetWallet(context.Background(), f.viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)
}

func TestTopUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet, err := f.wallets.TopUp(ctx, f.viewer.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), wallet.BalanceCents)

	for _, amount := range []int64{0, 99, 1000001} {
		_, err := f.wallets.TopUp(ctx, f.viewer.ID, amount)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount, "amount %d", amount)
	}

	txs, err := f.wallets.GetTransactions(ctx, f.viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionTopUp, txs[0].Type)
	assert.Equal(t, int64(5000), txs[0].BalanceAfter)
}

func TestTipPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := &models.Post{ModelID: f.model.ID, CreatorID: f.creator.ID, MediaURL: "u", MediaType: models.MediaTypeImage}
	require.NoError(t, f.db.Create(post).Error)

	_, err := f.wallets.TipPost(ctx, f.viewer.ID, post.ID, 500)
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)
	assert.Empty(t, f.pub.tasks)

	_, err = f.wallets.TopUp(ctx, f.viewer.ID, 1000)
	require.NoError(t, err)

	wallet, err := f.wallets.TipPost(ctx, f.viewer.ID, post.ID, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(600), wallet.BalanceCents)
	assert.Equal(t, int64(400), f.balance(t, f.creator.ID))

	require.Len(t, f.pub.tasks, 1)
	assert.Equal(t, queue.TaskTip, f.pub.tasks[0].Type)
	assert.Equal(t, f.creator.ID, f.pub.tasks[0].UserID)
	assert.Equal(t, "400", f.pub.tasks[0].Data["amount_cents"])

	_, err = f.wallets.TipPost(ctx, f.creator.ID, post.ID, 100)
	assert.ErrorIs(t, err, entity.ErrOwnPost)

	_, err = f.wallets.TipPost(ctx, f.viewer.ID, "00000000-0000-0000-0000-000000000000", 100)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}
