package ens

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(baseURL string) *Resolver {
	return New(Config{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolver_ReturnsName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ens/resolve/0xabc", r.URL.Path)
		_, _ = w.Write([]byte(`{"address": "0xabc", "name": "alice.eth"}`))
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL)
	assert.Equal(t, "alice.eth", r.Resolve(context.Background(), "0xabc"))
}

func TestResolver_NoNameFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address": "0xabc", "name": ""}`))
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL)
	assert.Equal(t, "0xabc", r.Resolve(context.Background(), "0xabc"))
}

func TestResolver_ErrorStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL)
	assert.Equal(t, "0xabc", r.Resolve(context.Background(), "0xabc"))
}

func TestResolver_UnreachableFallsBack(t *testing.T) {
	r := newTestResolver("http://127.0.0.1:1")
	assert.Equal(t, "0xabc", r.Resolve(context.Background(), "0xabc"))
}

func TestResolver_BadBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL)
	assert.Equal(t, "0xabc", r.Resolve(context.Background(), "0xabc"))
}
