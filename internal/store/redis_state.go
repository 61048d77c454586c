package store

import (
	"context"
	"errors"
	"strings"

	"doto/internal/model"

	"github.com/redis/go-redis/v9"
)

const defaultRedisAddr = "127.0.0.1:6379"

// redisBackend keeps the record as a single JSON string value under key.
type redisBackend struct {
	client *redis.Client
	key    string
}

func newRedisBackend(cfg StorageConfig, key string) *redisBackend {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		addr = defaultRedisAddr
	}
	return &redisBackend{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: cfg.RedisDB}),
		key:    key,
	}
}

func (b *redisBackend) Load(ctx context.Context) (model.State, bool, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.State{}, false, nil
		}
		return model.State{}, false, err
	}
	st, err := decodeState(raw)
	if err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

func (b *redisBackend) Save(ctx context.Context, st model.State) error {
	raw, err := encodeState(st)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, b.key, raw, 0).Err()
}

func (b *redisBackend) Close() error { return b.client.Close() }
