// Package ens resolves wallet addresses to human-readable ENS names.
// Resolution is best-effort: any failure falls back to the raw address
// and never propagates, so a broken resolver cannot fail a feed render.
package ens

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds resolver configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Resolver looks up ENS names over HTTP.
type Resolver struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New creates a Resolver.
func New(cfg Config, logger *slog.Logger) *Resolver {
	return &Resolver{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.With("component", "ens"),
	}
}

type resolveResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Resolve returns the ENS name for address, or the address unchanged
// when no name exists or the lookup fails for any reason.
func (r *Resolver) Resolve(ctx context.Context, address string) string {
	u := r.baseURL + "/ens/resolve/" + url.PathEscape(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		r.logger.Debug("ens request build failed", "address", address, "error", err)
		return address
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("ens lookup failed", "address", address, "error", err)
		return address
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("ens lookup non-ok status", "address", address, "status", resp.StatusCode)
		return address
	}

	var rr resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		r.logger.Debug("ens response decode failed", "address", address, "error", err)
		return address
	}
	if rr.Name == "" {
		return address
	}
	return rr.Name
}
