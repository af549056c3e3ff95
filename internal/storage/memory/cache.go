// Package memory provides an in-process cache store for tests and
// single-instance deployments where no database is configured.
package memory

import (
	"context"
	"sync"

	"poap2rss/internal/domain"
)

type CacheStore struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[string]domain.CacheEntry),
	}
}

func (s *CacheStore) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *CacheStore) Put(_ context.Context, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = entry
	return nil
}
