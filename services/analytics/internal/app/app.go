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
	"hookr/pkg/tracing"
	analyticsHTTP "hookr/services/analytics/internal/controller/http"
	"hookr/services/analytics/internal/repo/persistent"
	"hookr/services/analytics/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "hookr/services/analytics/docs" // Swagger docs
)

const serviceName = "analytics"

type App struct {
	cfg             *config.Config
	log             *logger.Logger
	db              *gorm.DB
	redisClient     *redis.Client
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
		log.Warn("Failed to connect to redis: %v (stats served uncached)", err)
		redisClient = nil
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
		jwtService:      jwt.NewService(cfg.JWTSecret),
		tracingShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	analyticsRepo := persistent.NewAnalyticsRepository(a.db)
	analyticsUseCase := usecase.NewAnalyticsUseCase(analyticsRepo, a.redisClient, a.log)
	analyticsHandler := analyticsHTTP.NewAnalyticsHandler(analyticsUseCase)

	r := httpserver.NewRouter(serviceName, serviceName, a.cfg, a.log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RefreshRole(access.NewChecker(a.db)), middleware.RequireRole("creator"))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	{
		api.GET("/analytics/me", analyticsHandler.GetCreatorStats)
		api.GET("/analytics/posts/:id", analyticsHandler.GetPostStats)
		api.GET("/analytics/earnings", analyticsHandler.GetEarnings)
	}

	a.server = httpserver.New(a.cfg.ServerPort, r, a.log)
	a.serverErr = a.server.Start(serviceName)
	return nil
}

func (a *App) Wait() {
	if err := httpserver.WaitForSignal(a.serverErr); err != nil {
		a.log.Error("Server stopped: %v", err)
	}
	a.log.Info("Shutting down analytics service...")
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
	if a.tracingShutdown != nil {
		a.tracingShutdown(ctx)
	}

	a.log.Info("Analytics service exited")
	return nil
}
