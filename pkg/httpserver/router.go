package httpserver

import (
	"net/http"
	"time"

	"hookr/pkg/config"
	"hookr/pkg/logger"
	"hookr/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter returns a gin engine with the shared middleware chain plus /health, /metrics and
// /swagger for the named service. swaggerInstance must match the service docs package.
func NewRouter(service, swaggerInstance string, cfg *config.Config, log *logger.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware(service))
	r.Use(middleware.Metrics(service))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(swaggerInstance)))

	return r
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			return
		}
		status := c.Writer.Status()
		line := "%s %s %d %s"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= 500:
			log.Error(line, args...)
		case status >= 400:
			log.Warn(line, args...)
		default:
			log.Info(line, args...)
		}
	}
}
