package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each list as a plain string value under an optional
// key prefix.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStorage(rdb *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

// OpenRedisStorage parses a redis:// URL and connects lazily.
func OpenRedisStorage(rawURL, prefix string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStorage(redis.NewClient(opt), prefix), nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.rdb.Ping(ctx).Err()
	})
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		v   []byte
		err error
	)
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		v, err = s.rdb.Get(ctx, s.prefix+key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
	})
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.rdb.Del(ctx, s.prefix+key).Err()
	})
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
