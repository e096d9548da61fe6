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
	notificationHTTP "hookr/services/notification/internal/controller/http"
	"hookr/services/notification/internal/repo/inbox"
	"hookr/services/notification/internal/repo/persistent"
	"hookr/services/notification/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/notification/docs" // Swagger docs
)

const serviceName = "notification"

type App struct {
	cfg             *config.Config
	log             *logger.Logger
	db              *gorm.DB
	redisClient     *redis.Client
	queueClient     *queue.Client
	jwtService      *jwt.Service
	server          *httpserver.Server
	serverErr       <-chan error
	stopConsumer    context.CancelFunc
	tracingShutdown tracing.ShutdownFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New().With("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// The inbox lives in Redis, so it is required here.
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (queue consumer disabled)", err)
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
	notificationRepo := persistent.NewNotificationRepository(a.db)
	inboxRepo := inbox.NewInboxRepository(a.redisClient, a.log)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, inboxRepo, a.log)

	var inspector notificationHTTP.QueueInspector
	if a.queueClient != nil {
		inspector = a.queueClient

		ctx, cancel := context.WithCancel(context.Background())
		a.stopConsumer = cancel
		a.log.Info("Starting notification queue processor...")
		if err := a.queueClient.Consume(ctx, notificationUseCase.HandleTask); err != nil {
			cancel()
			return err
		}
	}

	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, a.redisClient, inspector, a.jwtService, a.log)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	// The websocket authenticates from the query string.
	api.GET("/ws", notificationHandler.HandleWebSocket)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(a.jwtService))
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/notifications/read", notificationHandler.MarkAllRead)
		protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		protected.GET("/notifications/settings/:model_id", notificationHandler.GetSettings)
		protected.PUT("/notifications/settings/:model_id", notificationHandler.UpdateSettings)

		protected.GET("/admin/notifications/queue", middleware.RequireRole("admin"), notificationHandler.QueueStatus)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down notification service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	if a.stopConsumer != nil {
		a.stopConsumer()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
	}
	a.queueClient.Close()
	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}
	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}
	if a.tracingShutdown != nil {
		a.tracingShutdown(ctx)
	}

	a.log.Info("Notification service exited")
	return nil
}
