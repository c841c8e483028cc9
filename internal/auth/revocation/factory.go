package revocation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/common/config"
)

// NewStore creates a revocation store based on configuration
func NewStore(ctx context.Context, logger *zap.Logger, cfg *config.RevocationConfig) (Store, error) {
	logger.Info("Initializing token revocation store", zap.String("type", cfg.Type))
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Prefix)
	default:
		return nil, fmt.Errorf("unsupported revocation store type: %s", cfg.Type)
	}
}
