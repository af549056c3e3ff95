package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poap2rss/internal/domain"
	"poap2rss/internal/storage/memory"
)

type fakeStore struct {
	entries map[string]domain.CacheEntry
	getErr  error
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]domain.CacheEntry)}
}

func (s *fakeStore) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *fakeStore) Put(_ context.Context, entry domain.CacheEntry) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.entries[entry.Key] = entry
	return nil
}

func newTestCache(store Store) *Cache {
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func countingFetch(calls *int, payload []byte, err error) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		*calls++
		return payload, err
	}
}

func TestCache_HitWithinTTL(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(store)

	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int
	fetch := countingFetch(&calls, []byte("payload"), nil)

	got, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	// Second render within the TTL window must not fetch again.
	now = now.Add(14 * time.Minute)
	got, err = c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
	assert.Equal(t, 1, calls)
}

func TestCache_ExpiredEntryRefetched(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(store)

	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int
	fetch := countingFetch(&calls, []byte("payload"), nil)

	_, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, fetch)
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, store.puts)
}

func TestCache_FetchErrorNotCached(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(store)

	fetchErr := errors.New("upstream down")
	var calls int

	_, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, countingFetch(&calls, nil, fetchErr))
	assert.ErrorIs(t, err, fetchErr)
	assert.Empty(t, store.entries)

	// The next request fetches again rather than serving a failure.
	got, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, countingFetch(&calls, []byte("ok"), nil))
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
	assert.Equal(t, 2, calls)
}

func TestCache_StoreReadFailureDegradesToMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("store unavailable")
	c := newTestCache(store)

	var calls int
	got, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, countingFetch(&calls, []byte("payload"), nil))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
	assert.Equal(t, 1, calls)
}

func TestCache_StoreWriteFailureStillReturnsPayload(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("store unavailable")
	c := newTestCache(store)

	var calls int
	got, err := c.GetOrFetch(context.Background(), "event_1", 15*time.Minute, countingFetch(&calls, []byte("payload"), nil))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestCache_ConcurrentFetchesForOneKey(t *testing.T) {
	store := memory.NewCacheStore()
	c := newTestCache(store)

	var calls atomic.Int64
	start := make(chan struct{})

	fetch := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("payload"), nil
	}

	results := make([][]byte, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = c.GetOrFetch(context.Background(), "event_191490", 15*time.Minute, fetch)
		}(i)
	}
	close(start)
	wg.Wait()

	// Both renders succeed; the fetch races are benign, the upstream is
	// hit at most once per request and both see the same payload.
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, []byte("payload"), results[0])
	assert.Equal(t, results[0], results[1])
	assert.LessOrEqual(t, calls.Load(), int64(2))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "event_191490", EventKey(191490))
	assert.Equal(t, "address_0xabcdef", AddressKey("0xAbCdEf"))
}
