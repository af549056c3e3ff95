package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"poap2rss/internal/domain"
)

// Store is the key/value backend holding cache entries. Get returns
// (nil, nil) on a missing key; expiry is the caller's concern.
type Store interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry domain.CacheEntry) error
}

// Cache is a write-through cache in front of the upstream client. A
// live entry is served without invoking the fetch; a miss or expired
// entry triggers exactly one fetch whose result is stored before being
// returned. Store failures degrade to cache misses rather than failing
// the render. Concurrent fetches for one key may race; both compute
// the same value and the last writer wins.
type Cache struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Cache over the given store.
func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger.With("component", "cache"),
		now:    time.Now,
	}
}

// GetOrFetch returns the live payload for key, fetching and storing it
// when absent or expired. Fetch errors propagate and nothing is cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("cache read failed, treating as miss", "key", key, "error", err)
	} else if entry != nil && c.now().Before(entry.ExpiresAt) {
		c.logger.Debug("cache hit", "key", key)
		return entry.Payload, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	put := domain.CacheEntry{
		Key:       key,
		Payload:   payload,
		ExpiresAt: c.now().Add(ttl),
	}
	if err := c.store.Put(ctx, put); err != nil {
		c.logger.Error("cache write failed", "key", key, "error", err)
	}

	return payload, nil
}

// EventKey is the cache key for an event feed's upstream snapshot.
func EventKey(eventID int64) string {
	return fmt.Sprintf("event_%d", eventID)
}

// AddressKey is the cache key for an address feed's upstream snapshot.
// Addresses are case-normalized so checksummed and lowercase spellings
// share one entry.
func AddressKey(address string) string {
	return "address_" + strings.ToLower(address)
}
