// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/innoviz/internal/config"
)

// New opens the view cache backend selected by cfg.
func New(cfg config.CacheConfig, logger zerolog.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewMemoryCache(cfg.CleanupInterval), nil
	case config.CacheRedis:
		c, err := NewRedisCache(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheBadger:
		c, err := OpenBadgerCache(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
