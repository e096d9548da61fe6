package internal

import (
	"context"

	"hookr/pkg/cache"
	"hookr/pkg/config"
	"hookr/pkg/database"
	"hookr/pkg/httpserver"
	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"
	"hookr/pkg/queue"
	"hookr/pkg/tracing"
	chatHTTP "hookr/services/chat/internal/controller/http"
	"hookr/services/chat/internal/hub"
	"hookr/services/chat/internal/repo/persistent"
	"hookr/services/chat/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/chat/docs" // Swagger docs
)

const serviceName = "chat"

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
		log.Warn("Failed to connect to redis: %v (live chat disabled)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (message notifications disabled)", err)
		queueClient = nil
	}

	shutdown, err := tracing.Init(context.Background(), serviceName, cfg)
	if err != nil {
		log.Warn("Tracing disabled: %v", err)
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

	chatRepo := persistent.NewChatRepository(a.db)
	chatUseCase := usecase.NewChatUseCase(chatRepo, a.redisClient, publisher, a.log)

	chatHandler := chatHTTP.NewChatHandler(chatUseCase)
	wsHandler := chatHTTP.NewWebSocketHandler(chatUseCase, hub.New(hub.DefaultMaxConnsPerUser), a.redisClient, a.jwtService, a.log)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.GET("/chat/ws", wsHandler.HandleWebSocket)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(a.jwtService))
	protected.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		protected.GET("/conversations", chatHandler.ListConversations)
		// :id is the other user's id here and a conversation id below.
		protected.POST("/conversations/:id", chatHandler.OpenConversation)
		protected.GET("/conversations/:id/messages", chatHandler.GetMessages)
		protected.POST("/conversations/:id/messages", chatHandler.SendMessage)
		protected.POST("/conversations/:id/read", chatHandler.MarkRead)
		protected.GET("/chat/unread-count", chatHandler.UnreadCount)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down chat service...")
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

	a.log.Info("Chat service exited")
	return nil
}
