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
	interactionHTTP "hookr/services/interaction/internal/controller/http"
	"hookr/services/interaction/internal/repo/persistent"
	"hookr/services/interaction/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/interaction/docs" // Swagger docs
)

const serviceName = "interaction"

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
		log.Warn("Failed to connect to redis: %v (like counters served from database)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (interaction notifications disabled)", err)
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

	interactionRepo := persistent.NewInteractionRepository(a.db)
	socialRepo := persistent.NewSocialRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)

	interactionUseCase := usecase.NewInteractionUseCase(interactionRepo, postRepo, access.NewChecker(a.db), a.redisClient, publisher, a.log)
	socialUseCase := usecase.NewSocialUseCase(socialRepo, postRepo, a.redisClient, publisher, a.log)

	interactionHandler := interactionHTTP.NewInteractionHandler(interactionUseCase)
	socialHandler := interactionHTTP.NewSocialHandler(socialUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		api.POST("/posts/:id/like", interactionHandler.ToggleLike)
		api.GET("/posts/:id/like", interactionHandler.GetLikeStatus)
		api.GET("/me/likes", interactionHandler.GetLikedPosts)

		api.POST("/posts/:id/comments", interactionHandler.AddComment)
		api.GET("/posts/:id/comments", interactionHandler.ListComments)
		api.DELETE("/comments/:id", interactionHandler.DeleteComment)

		api.GET("/favorites", socialHandler.ListFavorites)
		api.GET("/favorites/:model_id", socialHandler.GetFavorite)
		api.POST("/favorites/:model_id", socialHandler.AddFavorite)
		api.DELETE("/favorites/:model_id", socialHandler.RemoveFavorite)
		api.POST("/favorites/:model_id/toggle", socialHandler.ToggleFavorite)

		api.POST("/models/:id/reviews", socialHandler.CreateReview)
		api.GET("/models/:id/reviews", socialHandler.ListReviews)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down interaction service...")
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

	a.log.Info("Interaction service exited")
	return nil
}
