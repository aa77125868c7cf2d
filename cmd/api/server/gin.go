package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-directory-api/internal/adapter/gin/handler"
	ginrouter "user-directory-api/internal/adapter/gin/router"
	"user-directory-api/internal/adapter/ratelimit"
	"user-directory-api/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	userHandler *ginhandler.UserHandler,
	healthHandler *ginhandler.HealthHandler,
	rateLimiter *ratelimit.RateLimiter,
	l *zap.Logger,
) *http.Server {
	if cfg.App.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(
		ginrouter.Config{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			EnableSwagger:  cfg.App.SwaggerEnabled,
		},
		userHandler,
		healthHandler,
		rateLimiter,
		l,
	)

	l.Info("Gin REST API configured",
		zap.String("address", ":"+cfg.App.HTTPPort),
		zap.Bool("swagger", cfg.App.SwaggerEnabled),
	)

	return &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
