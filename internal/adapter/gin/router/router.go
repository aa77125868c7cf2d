package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-directory-api/api/swagger"
	"user-directory-api/internal/adapter/gin/handler"
	"user-directory-api/internal/adapter/gin/middleware"
	"user-directory-api/internal/adapter/ratelimit"
)

// SwaggerSpecPath is where the OpenAPI document is served.
const SwaggerSpecPath = "/openapi/users.swagger.json"

// Config controls the optional parts of the router.
type Config struct {
	AllowedOrigins []string
	EnableSwagger  bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	cfg Config,
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter *ratelimit.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware. Recovery sits inside GZIP so a panic response is
	// written before the compressed writer closes, and inside Logger so the
	// resulting 500 is still logged.
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.GZIP())
	router.Use(middleware.Recovery(log))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Detail: "Not Found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponse{Detail: "Method Not Allowed"})
	})

	router.GET("/api/health", healthHandler.Health)
	router.GET("/test", healthHandler.Test)

	users := router.Group("/api/users", middleware.RateLimiter(rateLimiter, log))
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:user_id", userHandler.GetUser)
	}

	if cfg.EnableSwagger {
		router.GET(SwaggerSpecPath, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.Spec)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerSpecPath))))
	}

	return router
}
