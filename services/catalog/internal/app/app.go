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
	"hookr/pkg/s3"
	"hookr/pkg/tracing"
	"hookr/pkg/validation"
	catalogHTTP "hookr/services/catalog/internal/controller/http"
	"hookr/services/catalog/internal/repo/persistent"
	"hookr/services/catalog/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/catalog/docs" // Swagger docs
)

const serviceName = "catalog"

type App struct {
	cfg             *config.Config
	log             *logger.Logger
	db              *gorm.DB
	redisClient     *redis.Client
	s3Client        *s3.Client
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
		log.Warn("Failed to connect to redis: %v (model cache disabled)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
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
		s3Client:        s3Client,
		jwtService:      jwt.NewService(cfg.JWTSecret),
		tracingShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	modelRepo := persistent.NewModelRepository(a.db)
	modelUseCase := usecase.NewModelUseCase(modelRepo, a.s3Client, a.redisClient, a.log)
	modelHandler := catalogHTTP.NewModelHandler(modelUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/browse", modelHandler.Browse)
		api.GET("/models/me", modelHandler.GetMyModel)
		api.GET("/models/:id", modelHandler.GetModel)
		api.GET("/models/:id/services", modelHandler.Services)

		creator := api.Group("")
		creator.Use(middleware.RefreshRole(access.NewChecker(a.db)), middleware.RequireRole("creator", "admin"))
		{
			creator.POST("/models", modelHandler.CreateModel)
			creator.PUT("/models/me", modelHandler.UpdateMyModel)
			creator.PUT("/models/me/tags", modelHandler.SetTags)
			creator.PUT("/models/me/availability", modelHandler.SetAvailability)
			creator.POST("/models/me/image", modelHandler.UploadImage)
		}
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down catalog service...")
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
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			a.log.Error("Error flushing traces: %v", err)
		}
	}

	a.log.Info("Catalog service exited")
	return nil
}
