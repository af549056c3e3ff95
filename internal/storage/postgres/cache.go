package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"poap2rss/internal/domain"
)

// CacheStore keeps cache entries in a postgres table. The table name
// comes from configuration (the cache table identifier); expired rows
// are simply overwritten by the next Put, no sweep runs.
type CacheStore struct {
	db    *sqlx.DB
	table string
}

func NewCacheStore(db *sqlx.DB, table string) *CacheStore {
	return &CacheStore{db: db, table: table}
}

func (s *CacheStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	query := fmt.Sprintf(`
		SELECT cache_key, payload, expires_at
		FROM %s
		WHERE cache_key = $1`, s.table)

	err := s.db.GetContext(ctx, &entry, query, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *CacheStore) Put(ctx context.Context, entry domain.CacheEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (cache_key, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at`, s.table)

	_, err := s.db.ExecContext(ctx, query, entry.Key, entry.Payload, entry.ExpiresAt)
	return err
}
