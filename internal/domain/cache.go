package domain

import "time"

// CacheEntry is one cached upstream payload. An entry past ExpiresAt is
// treated as absent; eviction is lazy, there is no background sweep.
type CacheEntry struct {
	Key       string    `db:"cache_key"`
	Payload   []byte    `db:"payload"`
	ExpiresAt time.Time `db:"expires_at"`
}
