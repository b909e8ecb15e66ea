package kv

import (
	"fmt"

	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the store named by cfg.Store
func New(cfg config.SessionConfig, redisCfg config.RedisConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory session store; the operator is forgotten on restart")
		return NewMemoryStore(), nil
	case "sqlite", "":
		logger.Info("using sqlite session store", zap.String("path", cfg.SQLitePath))
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case "redis":
		logger.Info("using Redis session store", zap.String("addr", redisCfg.Addr()))
		return NewRedisStore(RedisOptions{
			Addr:      redisCfg.Addr(),
			Password:  redisCfg.Password,
			DB:        redisCfg.DB,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
