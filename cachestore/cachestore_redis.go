package cachestore

import (
	"context"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "chat-rules:verdict:"

// RedisStore shares verdicts between bot processes.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

type Option func(*RedisStore)

// WithTTL sets the expiration of cached verdicts.
func WithTTL(ttl time.Duration) Option {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for verdicts.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore connects to address and checks the connection.
func NewRedisStore(ctx context.Context, address string, opts ...Option) (*RedisStore, error) {
	rdb := backend.NewClient(&backend.Options{Addr: address})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewRedisStoreFromClient(rdb, opts...), nil
}

func NewRedisStoreFromClient(client *backend.Client, opts ...Option) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: defaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, backend.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val string) error {
	return s.client.Set(ctx, s.key(key), val, s.ttl).Err()
}

func (s *RedisStore) Purge(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
