package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/middleware"
	"hookr/pkg/validation"
	"hookr/services/wallet/internal/entity"
	"hookr/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletUseCase struct {
	mock.Mock
}

var _ usecase.WalletUseCase = (*MockWalletUseCase)(nil)

func (m *MockWalletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) TopUp(ctx context.Context, userID string, amountCents int64) (*entity.Wallet, error) {
	args := m.Called(ctx, userID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) TipPost(ctx context.Context, userID, postID string, amountCents int64) (*entity.Wallet, error) {
	args := m.Called(ctx, userID, postID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

type MockSubscriptionUseCase struct {
	mock.Mock
}

var _ usecase.SubscriptionUseCase = (*MockSubscriptionUseCase)(nil)

func (m *MockSubscriptionUseCase) Tiers() []entity.Tier {
	return m.Called().Get(0).([]entity.Tier)
}

func (m *MockSubscriptionUseCase) Subscribe(ctx context.Context, viewerID, modelID, tier string) (*entity.SubscribeResult, error) {
	args := m.Called(ctx, viewerID, modelID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubscribeResult), args.Error(1)
}

func (m *MockSubscriptionUseCase) Cancel(ctx context.Context, viewerID, modelID string) (*entity.Subscription, error) {
	args := m.Called(ctx, viewerID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionUseCase) GetState(ctx context.Context, viewerID, modelID string) (*entity.SubscriptionState, error) {
	args := m.Called(ctx, viewerID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubscriptionState), args.Error(1)
}

func (m *MockSubscriptionUseCase) ListSubscriptions(ctx context.Context, viewerID string, limit, offset int) ([]*entity.Subscription, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionUseCase) ListSubscribers(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Subscriber, error) {
	args := m.Called(ctx, creatorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Subscriber), args.Error(1)
}

func setupRouter(t *testing.T, wallets usecase.WalletUseCase, subs usecase.SubscriptionUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	wh := NewWalletHandler(wallets)
	sh := NewSubscriptionHandler(subs)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	r.GET("/wallet", wh.GetWallet)
	r.POST("/wallet/topup", wh.TopUp)
	r.POST("/posts/:id/tip", wh.TipPost)
	r.GET("/subscriptions/tiers", sh.Tiers)
	r.POST("/subscriptions/:model_id", sh.Subscribe)
	r.DELETE("/subscriptions/:model_id", sh.Cancel)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTopUpHandler(t *testing.T) {
	wallets := new(MockWalletUseCase)
	wallets.On("TopUp", mock.Anything, "user-1", int64(2500)).Return(&entity.Wallet{UserID: "user-1", BalanceCents: 2500}, nil)
	r := setupRouter(t, wallets, new(MockSubscriptionUseCase))

	w := postJSON(r, "/wallet/topup", `{"amount_cents":2500}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance_cents":2500`)

	w = postJSON(r, "/wallet/topup", `{"amount_cents":50}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	wallets.AssertNumberOfCalls(t, "TopUp", 1)
}

func TestTipHandler_InsufficientFunds(t *testing.T) {
	wallets := new(MockWalletUseCase)
	wallets.On("TipPost", mock.Anything, "user-1", "post-1", int64(500)).Return(nil, entity.ErrInsufficientFunds)
	r := setupRouter(t, wallets, new(MockSubscriptionUseCase))

	w := postJSON(r, "/posts/post-1/tip", `{"amount_cents":500}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"insufficient funds"}`, w.Body.String())
}

func TestSubscribeHandler(t *testing.T) {
	subs := new(MockSubscriptionUseCase)
	subs.On("Subscribe", mock.Anything, "user-1", "model-1", "monthly").
		Return(&entity.SubscribeResult{Subscription: &entity.Subscription{ID: "s-1"}, Wallet: &entity.Wallet{}}, nil)
	subs.On("Subscribe", mock.Anything, "user-1", "mine", "monthly").Return(nil, entity.ErrOwnModel)
	subs.On("Subscribe", mock.Anything, "user-1", "broke", "monthly").Return(nil, entity.ErrInsufficientFunds)
	r := setupRouter(t, new(MockWalletUseCase), subs)

	assert.Equal(t, http.StatusCreated, postJSON(r, "/subscriptions/model-1", `{"tier":"monthly"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/subscriptions/mine", `{"tier":"monthly"}`).Code)
	assert.Equal(t, http.StatusPaymentRequired, postJSON(r, "/subscriptions/broke", `{"tier":"monthly"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/subscriptions/model-1", `{"tier":"weekly"}`).Code)
}

func TestCancelHandler_NotFound(t *testing.T) {
	subs := new(MockSubscriptionUseCase)
	subs.On("Cancel", mock.Anything, "user-1", "model-1").Return(nil, entity.ErrSubscriptionNotFound)
	r := setupRouter(t, new(MockWalletUseCase), subs)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/subscriptions/model-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTiersHandler(t *testing.T) {
	subs := new(MockSubscriptionUseCase)
	subs.On("Tiers").Return(entity.Tiers())
	r := setupRouter(t, new(MockWalletUseCase), subs)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/subscriptions/tiers", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Yearly VIP"`)
}
