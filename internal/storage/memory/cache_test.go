package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poap2rss/internal/domain"
)

func TestCacheStore_MissingKey(t *testing.T) {
	store := NewCacheStore()

	entry, err := store.Get(context.Background(), "event_1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCacheStore_PutGet(t *testing.T) {
	store := NewCacheStore()
	expires := time.Now().Add(15 * time.Minute)

	err := store.Put(context.Background(), domain.CacheEntry{
		Key:       "event_1",
		Payload:   []byte("payload"),
		ExpiresAt: expires,
	})
	require.NoError(t, err)

	entry, err := store.Get(context.Background(), "event_1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []byte("payload"), entry.Payload)
	assert.True(t, entry.ExpiresAt.Equal(expires))
}

func TestCacheStore_Overwrite(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.CacheEntry{Key: "event_1", Payload: []byte("old")}))
	require.NoError(t, store.Put(ctx, domain.CacheEntry{Key: "event_1", Payload: []byte("new")}))

	entry, err := store.Get(ctx, "event_1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []byte("new"), entry.Payload)
}
