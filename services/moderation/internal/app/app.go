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
	moderationHTTP "hookr/services/moderation/internal/controller/http"
	"hookr/services/moderation/internal/repo/persistent"
	"hookr/services/moderation/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/moderation/docs" // Swagger docs
)

const serviceName = "moderation"

type App struct {
	cfg             *config.Config
	log             *logger.Logger
	db              *gorm.DB
	redisClient     *redis.Client
	rabbitMQ        *queue.Client
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
		log.Warn("Failed to connect to redis: %v (cache invalidation disabled)", err)
		redisClient = nil
	}

	rabbitMQ, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (review notifications disabled)", err)
		rabbitMQ = nil
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
		rabbitMQ:        rabbitMQ,
		jwtService:      jwt.NewService(cfg.JWTSecret),
		tracingShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	var publisher queue.Publisher
	if a.rabbitMQ != nil {
		publisher = a.rabbitMQ
	}

	moderationRepo := persistent.NewModerationRepository(a.db)
	moderationUseCase := usecase.NewModerationUseCase(moderationRepo, a.redisClient, publisher, a.log)
	moderationHandler := moderationHTTP.NewModerationHandler(moderationUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(a.jwtService), middleware.RequireRole("admin"))
	{
		admin.GET("/applications", moderationHandler.ListApplications)
		admin.POST("/applications/:user_id/approve", moderationHandler.Approve)
		admin.POST("/applications/:user_id/reject", moderationHandler.Reject)
		admin.POST("/users/:user_id/activate", moderationHandler.Activate)
		admin.POST("/users/:user_id/deactivate", moderationHandler.Deactivate)
		admin.DELETE("/posts/:post_id", moderationHandler.TakeDownPost)
		admin.GET("/stats", moderationHandler.Stats)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down moderation service...")
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
	a.rabbitMQ.Close()
	if a.tracingShutdown != nil {
		a.tracingShutdown(ctx)
	}

	a.log.Info("Moderation service exited")
	return nil
}
