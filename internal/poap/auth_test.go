package poap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticator_ExchangeRequest(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{
		AuthURL:      srv.URL,
		Audience:     "https://api.poap.tech",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, testLogger())

	token, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{
		"audience":      "https://api.poap.tech",
		"grant_type":    "client_credentials",
		"client_id":     "client-id",
		"client_secret": "client-secret",
	}, gotBody)
}

func TestAuthenticator_ReusesTokenUntilMargin(t *testing.T) {
	var exchanges atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{AuthURL: srv.URL, Margin: 60 * time.Second}, testLogger())

	now := time.Now()
	auth.now = func() time.Time { return now }

	_, err := auth.Token(context.Background())
	require.NoError(t, err)
	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), exchanges.Load(), "valid token must be reused without a network call")

	// Within the safety margin of expiry the token is refreshed.
	now = now.Add(3600*time.Second - 30*time.Second)
	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load())
}

func TestAuthenticator_Invalidate(t *testing.T) {
	var exchanges atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{AuthURL: srv.URL}, testLogger())

	_, err := auth.Token(context.Background())
	require.NoError(t, err)

	auth.Invalidate()

	_, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load())
}

func TestAuthenticator_ConcurrentTokenRequests(t *testing.T) {
	var exchanges atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{AuthURL: srv.URL}, testLogger())

	start := make(chan struct{})
	tokens := make([]string, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i], errs[i] = auth.Token(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	// Cold-start requests may race to refresh; redundant exchanges are
	// tolerated and both callers end with a usable credential.
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "tok", tokens[0])
	assert.Equal(t, "tok", tokens[1])
	assert.LessOrEqual(t, exchanges.Load(), int64(2))

	// Once warm, no further exchanges happen.
	_, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, exchanges.Load(), int64(2))
}

func TestAuthenticator_ExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad client", http.StatusForbidden)
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{AuthURL: srv.URL}, testLogger())

	_, err := auth.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestAuthenticator_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"expires_in": 3600})
	}))
	defer srv.Close()

	auth := NewAuthenticator(AuthConfig{AuthURL: srv.URL}, testLogger())

	_, err := auth.Token(context.Background())

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}
