package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HashGetter is the slice of the go-redis client RedisStore needs.
// *redis.Client and *redis.ClusterClient satisfy it.
type HashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

// RedisStore keeps each scope in one hash: HGET <prefix>:<scope> <key>.
type RedisStore struct {
	client HashGetter
	prefix string
}

func NewRedisStore(client HashGetter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) hashKey(scope string) string {
	if s.prefix == "" {
		return scope
	}
	return s.prefix + ":" + scope
}

func (s *RedisStore) lookup(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hashKey(scope), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) GetString(ctx context.Context, scope, key string) (string, bool) {
	return lookupFunc(s.lookup).GetString(ctx, scope, key)
}

func (s *RedisStore) GetBool(ctx context.Context, scope, key string) (bool, error) {
	return lookupFunc(s.lookup).GetBool(ctx, scope, key)
}

// RedisConfig is the connection part of the settings config.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DialRedis opens a client and checks it with PING.
func DialRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("settings: redis ping failed: %w", err)
	}
	return rdb, nil
}
