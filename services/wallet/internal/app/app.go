package internal

import (
	"context"

	"hookr/pkg/access"
	"hookr/pkg/cache"
	"hookr/pkg/config"
	"hookr/pkg/database"
	"hookr/pkg/httpserver"
	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/pkg/queue"
	"hookr/pkg/tracing"
	"hookr/pkg/validation"
	walletHTTP "hookr/services/wallet/internal/controller/http"
	"hookr/services/wallet/internal/repo/persistent"
	"hookr/services/wallet/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/wallet/docs" // Swagger docs
)

const serviceName = "wallet"

type App struct {
	cfg             *config.Config
	log             *logger.Logger
	db              *gorm.DB
	redisClient     *redis.Client
	queueClient     *queue.Client
	jwtService      *jwt.Service
	server          *httpserver.Server
	serverErr       <-chan error
	tracingShutdown tracing.ShutdownFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New().With("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (feed invalidation and rate limiting disabled)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (payment notifications disabled)", err)
		queueClient = nil
	}

	shutdown, err := tracing.Init(context.Background(), serviceName, cfg)
	if err != nil {
		log.Warn("Tracing disabled: %v", err)
	}

	if err := validation.Register(); err != nil {
		return nil, err
	}

	return &App{
		cfg:             cfg,
		log:             log,
		db:              db,
		redisClient:     redisClient,
		queueClient:     queueClient,
		jwtService:      jwt.NewService(cfg.JWTSecret),
		tracingShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	var publisher queue.Publisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	walletRepo := persistent.NewWalletRepository(a.db)
	subscriptionRepo := persistent.NewSubscriptionRepository(a.db)

	walletUseCase := usecase.NewWalletUseCase(walletRepo, publisher, a.log)
	subscriptionUseCase := usecase.NewSubscriptionUseCase(subscriptionRepo, walletRepo, a.redisClient, publisher, a.log)

	walletHandler := walletHTTP.NewWalletHandler(walletUseCase)
	subscriptionHandler := walletHTTP.NewSubscriptionHandler(subscriptionUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		api.GET("/wallet", walletHandler.GetWallet)
		api.POST("/wallet/topup", walletHandler.TopUp)
		api.GET("/wallet/transactions", walletHandler.GetTransactions)
		api.POST("/posts/:id/tip", walletHandler.TipPost)

		api.GET("/subscriptions/tiers", subscriptionHandler.Tiers)
		api.GET("/subscriptions", subscriptionHandler.ListSubscriptions)
		api.GET("/subscriptions/:model_id", subscriptionHandler.GetState)
		api.POST("/subscriptions/:model_id", subscriptionHandler.Subscribe)
		api.DELETE("/subscriptions/:model_id", subscriptionHandler.Cancel)

		api.GET("/subscribers", middleware.RefreshRole(access.NewChecker(a.db)), middleware.RequireRole("creator", "admin"), subscriptionHandler.ListSubscribers)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down wallet service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
	}
	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	a.queueClient.Close()
	if a.tracingShutdown != nil {
		a.tracingShutdown(ctx)
	}

	a.log.Info("Wallet service exited")
	return nil
}
