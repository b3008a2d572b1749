package forum

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

// RedisBackend stores the slot under a single string key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(addr, pass string, maxRetries int) (*RedisBackend, error) {
	opt := &redis.Options{
		Addr: addr,
	}
	if pass != "" {
		opt.Password = pass
	}
	if maxRetries > 0 && maxRetries < 5 {
		opt.MaxRetries = maxRetries
	}
	client := redis.NewClient(opt)
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return &RedisBackend{client: client, key: SlotKey}, nil
}

func (b *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.WithContext(ctx).Get(b.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", b.key, err)
	}
	return data, nil
}

func (b *RedisBackend) Save(ctx context.Context, data []byte) error {
	if err := b.client.WithContext(ctx).Set(b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", b.key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
