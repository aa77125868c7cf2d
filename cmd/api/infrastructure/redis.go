package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"user-directory-api/internal/config"
	redisclient "user-directory-api/pkg/redis"
)

// NewRedisClient connects to the Redis instance holding rate limit buckets.
// It returns nil without dialing when rate limiting is disabled.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.RateLimit.Enabled {
		l.Info("rate limiting disabled, skipping redis")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
