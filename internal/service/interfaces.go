package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"poap2rss/internal/domain"
)

// Source fetches raw records from the upstream POAP API.
type Source interface {
	GetEvent(ctx context.Context, eventID int64) (domain.EventRecord, error)
	GetRecentClaims(ctx context.Context, eventID int64, limit int) ([]domain.ClaimRecord, error)
	GetAddressCollection(ctx context.Context, address string, limit int) ([]domain.ClaimRecord, error)
}

// DataCache is the write-through cache sitting in front of Source.
type DataCache interface {
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// Resolver maps a wallet address to a human-readable alias. It never
// fails: on any lookup problem it returns the address unchanged.
type Resolver interface {
	Resolve(ctx context.Context, address string) string
}
