package store

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 1024

// CachedStore es un read-through LRU delante de otro KeyValueStore.
// Las escrituras van primero al backend; el cache solo se actualiza si tuvieron éxito.
type CachedStore struct {
	backend KeyValueStore
	cache   *lru.Cache[string, string]
}

func NewCachedStore(backend KeyValueStore, size int) (*CachedStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("cached store: nil backend")
	}
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("cached store: %w", err)
	}
	return &CachedStore{backend: backend, cache: cache}, nil
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", err
	}
	s.cache.Add(key, v)
	return v, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.cache.Remove(key)
		return err
	}
	s.cache.Add(key, value)
	return nil
}
