package di

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-api/cmd/api/infrastructure"
	"user-directory-api/internal/adapter/db/postgres"
	ginhandler "user-directory-api/internal/adapter/gin/handler"
	"user-directory-api/internal/adapter/ratelimit"
	"user-directory-api/internal/config"
	"user-directory-api/internal/usecase/user"
	redisclient "user-directory-api/pkg/redis"
	"user-directory-api/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client
	UserUC        user.UserUsecase
	RateLimiter   *ratelimit.RateLimiter
	Redactor      *security.Redactor
	UserHandler   *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis only backs the rate limiter; nil when it is disabled.
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	var rateLimiter *ratelimit.RateLimiter
	if rdb != nil {
		rateLimiter = ratelimit.NewRateLimiter(
			rdb,
			ratelimit.Config{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l.Named("ratelimit"),
		)
	}

	repo := postgres.NewUserRepoPG(db, l.Named("repo"))
	userUC := user.New(repo, l.Named("usecase"))

	redactor := security.NewRedactor(cfg.App.ExposeInternalErrors, cfg.Secrets()...)

	return &Container{
		Config:        cfg,
		Logger:        l,
		DB:            db,
		RedisClient:   rdb,
		UserUC:        userUC,
		RateLimiter:   rateLimiter,
		Redactor:      redactor,
		UserHandler:   ginhandler.NewUserHandler(userUC, l.Named("handler"), redactor),
		HealthHandler: ginhandler.NewHealthHandler(),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
