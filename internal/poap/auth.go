package poap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// AuthConfig holds credential exchange configuration.
type AuthConfig struct {
	AuthURL      string
	Audience     string
	ClientID     string
	ClientSecret string
	// Margin is subtracted from the token lifetime: a token within
	// Margin of expiry is refreshed instead of reused.
	Margin  time.Duration
	Timeout time.Duration
}

// Authenticator obtains and refreshes the delegated bearer credential
// via a client-credentials exchange. A held token is reused for the
// lifetime of the process until it nears expiry. Concurrent refreshes
// may race; the exchange is idempotent and the last writer wins.
type Authenticator struct {
	httpClient *http.Client
	cfg        AuthConfig
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(cfg AuthConfig, logger *slog.Logger) *Authenticator {
	if cfg.Margin == 0 {
		cfg.Margin = 60 * time.Second
	}
	return &Authenticator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger.With("component", "poap_auth"),
		now:    time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns the held credential, refreshing it first if it is
// absent or within the safety margin of expiry.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	token, expiresAt := a.token, a.expiresAt
	a.mu.Unlock()

	if token != "" && a.now().Before(expiresAt.Add(-a.cfg.Margin)) {
		return token, nil
	}

	return a.refresh(ctx)
}

// Invalidate drops the held credential so the next Token call performs
// a fresh exchange. Used by the client after an unexpected 401.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	a.token = ""
	a.expiresAt = time.Time{}
	a.mu.Unlock()
}

func (a *Authenticator) refresh(ctx context.Context) (string, error) {
	a.logger.Info("refreshing access token")

	body, err := json.Marshal(map[string]string{
		"audience":      a.cfg.Audience,
		"grant_type":    "client_credentials",
		"client_id":     a.cfg.ClientID,
		"client_secret": a.cfg.ClientSecret,
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.AuthURL, bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("execute exchange: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &AuthError{Err: fmt.Errorf("exchange status %d: %s", resp.StatusCode, b)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode exchange response: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &AuthError{Err: fmt.Errorf("exchange response missing access_token")}
	}
	if tr.ExpiresIn == 0 {
		tr.ExpiresIn = 3600
	}

	expiresAt := a.now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	a.mu.Lock()
	a.token = tr.AccessToken
	a.expiresAt = expiresAt
	a.mu.Unlock()

	a.logger.Info("access token refreshed", "expires_at", expiresAt)

	return tr.AccessToken, nil
}
