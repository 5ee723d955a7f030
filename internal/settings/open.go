package settings

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendEnv      = "env"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string
	FilePath    string
	EnvPrefix   string
	Redis       RedisConfig
	PostgresDSN string
}

// Open builds the Provider described by cfg. The returned close function is
// never nil.
func Open(ctx context.Context, cfg Config) (Provider, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendFile, "":
		if strings.TrimSpace(cfg.FilePath) == "" {
			return nil, noop, fmt.Errorf("settings: file backend needs a path")
		}
		return NewFileStore(cfg.FilePath), noop, nil
	case BackendEnv:
		return EnvStore{Prefix: cfg.EnvPrefix}, noop, nil
	case BackendRedis:
		rdb, err := DialRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(rdb, cfg.Redis.Prefix), rdb.Close, nil
	case BackendPostgres:
		pool, err := ConnectPG(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return NewPGStore(pool), func() error { pool.Close(); return nil }, nil
	default:
		return nil, noop, fmt.Errorf("settings: unknown backend %q", cfg.Backend)
	}
}
