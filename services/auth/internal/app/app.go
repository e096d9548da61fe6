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
	"hookr/pkg/s3"
	"hookr/pkg/tracing"
	"hookr/pkg/validation"
	authHTTP "hookr/services/auth/internal/controller/http"
	"hookr/services/auth/internal/repo/persistent"
	"hookr/services/auth/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/auth/docs" // Swagger docs
)

const serviceName = "auth"

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

	// Redis only backs rate limiting here.
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (rate limiting disabled)", err)
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
		jwtService:      jwt.NewService(cfg.JWTSecret).WithTTL(cfg.JWTTTL),
		tracingShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	userRepo := persistent.NewUserRepository(a.db)
	authUseCase := usecase.NewAuthUseCase(userRepo, a.jwtService, a.s3Client, a.log)
	authHandler := authHTTP.NewAuthHandler(authUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.GET("/me", authHandler.Me)
			protected.PUT("/me", authHandler.UpdateMe)
			protected.POST("/me/avatar", authHandler.UploadAvatar)
			protected.GET("/me/creator-application", authHandler.GetApplication)
			protected.POST("/me/creator-application", authHandler.ApplyForCreator)
			protected.GET("/users/:id", authHandler.GetUser)
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
	a.log.Info("Shutting down auth service...")
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

	a.log.Info("Auth service exited")
	return nil
}
