package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/platform/config"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// HealthCheckName identifies the Redis store in readiness results.
const HealthCheckName = "preferences"

var (
	_ ports.PreferenceStore = (*RedisStore)(nil)
	_ ports.HealthChecker   = (*RedisStore)(nil)
)

// RedisStore keeps preferences as plain string keys under a prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient builds a client from cfg.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
}

// NewRedisStore creates a store over client. Keys are stored as prefix+key.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements ports.PreferenceStore. Redis failures wrap
// domain.ErrUnavailable.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %q: %w: %w", key, domain.ErrUnavailable, err)
	}
	return v, true, nil
}

// Set implements ports.PreferenceStore. Values never expire.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("writing preference %q: %w: %w", key, domain.ErrUnavailable, err)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (s *RedisStore) Name() string {
	return HealthCheckName
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w", HealthCheckName, err)
	}
	return nil
}

// Shutdown implements do.Shutdowner by closing the client.
func (s *RedisStore) Shutdown() error {
	return s.client.Close()
}
