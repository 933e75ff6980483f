package cachestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MemStore struct {
	Data *expirable.LRU[string, string]
}

var _ Store = MemStore{}

func NewMemStore(capacity int, ttl time.Duration) MemStore {
	return MemStore{
		Data: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (s MemStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.Data.Get(key)
	return v, ok, nil
}

func (s MemStore) Set(_ context.Context, key string, val string) error {
	s.Data.Add(key, val)
	return nil
}

func (s MemStore) Purge(_ context.Context, key string) error {
	s.Data.Remove(key)
	return nil
}
