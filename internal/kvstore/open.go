package kvstore

import (
	"context"
	"fmt"

	"crowdfix/configs"
	"crowdfix/internal/dbs"
	"crowdfix/internal/logger"

	"go.uber.org/zap"
)

// Open builds the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *configs.Config) (Store, error) {
	logger.Log.Debug("Opening local store", zap.String("backend", cfg.StoreBackend))

	switch cfg.StoreBackend {
	case configs.BackendMemory:
		return NewMemoryStore(), nil
	case configs.BackendFile:
		return NewFileStore(cfg.StorePath)
	case configs.BackendRedis:
		client, err := dbs.InitRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.RedisPrefix), nil
	case configs.BackendSQL:
		db, err := dbs.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil
	case configs.BackendBadger:
		return NewBadgerStore(cfg.StorePath)
	}
	return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
}
