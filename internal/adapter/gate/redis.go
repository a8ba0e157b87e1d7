package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coinlisting/internal/domain/port"
)

var _ port.RefreshGate = (*RedisGate)(nil)

// RedisGate holds refresh locks as expiring keys so replicas behind a load
// balancer agree on who refreshes a view.
type RedisGate struct {
	client *redis.Client
	prefix string
}

func NewRedisGate(addr, password string, db int) (*RedisGate, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisGateFromClient(client), nil
}

func NewRedisGateFromClient(client *redis.Client) *RedisGate {
	return &RedisGate{
		client: client,
		prefix: "refresh:",
	}
}

func (g *RedisGate) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire refresh gate %s: %w", key, err)
	}
	return ok, nil
}

func (g *RedisGate) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *RedisGate) Close() error {
	return g.client.Close()
}
