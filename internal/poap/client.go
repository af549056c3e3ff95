package poap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"poap2rss/internal/domain"
)

// TokenProvider supplies the bearer credential for API calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// ClientConfig holds POAP API client configuration.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client issues authenticated calls against the POAP API and maps
// upstream failures to the typed errors in this package.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	auth       TokenProvider
	logger     *slog.Logger
}

// NewClient creates a POAP API client.
func NewClient(cfg ClientConfig, auth TokenProvider, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		auth:    auth,
		logger:  logger.With("component", "poap_client"),
	}
}

// GetEvent fetches event metadata by id.
func (c *Client) GetEvent(ctx context.Context, eventID int64) (domain.EventRecord, error) {
	endpoint := fmt.Sprintf("/events/id/%d", eventID)

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return domain.EventRecord{}, err
	}

	var er eventResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return domain.EventRecord{}, &ParseError{Endpoint: endpoint, Err: err}
	}

	event := domain.EventRecord{
		ID:          er.ID,
		Name:        er.Name,
		Description: er.Description,
		ImageURL:    er.ImageURL,
		City:        er.City,
		Country:     er.Country,
	}
	for _, raw := range []string{er.StartDate, er.EndDate, er.ExpiryDate} {
		if raw == "" {
			continue
		}
		if t, err := parseClaimTime(raw); err == nil {
			event.StartDate = t
			break
		}
	}
	return event, nil
}

// GetRecentClaims fetches the most recently minted tokens for an event.
func (c *Client) GetRecentClaims(ctx context.Context, eventID int64, limit int) ([]domain.ClaimRecord, error) {
	endpoint := fmt.Sprintf("/event/%d/poaps", eventID)
	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	params.Set("offset", "0")

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var tr eventTokensResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &ParseError{Endpoint: endpoint, Err: err}
	}

	claims := make([]domain.ClaimRecord, 0, len(tr.Tokens))
	for _, tok := range tr.Tokens {
		claimedAt, err := parseClaimTime(tok.Created)
		if err != nil {
			c.logger.Warn("skipping claim with bad timestamp",
				"event_id", eventID,
				"token_id", tok.ID.String(),
				"error", err,
			)
			continue
		}
		claims = append(claims, domain.ClaimRecord{
			EventID:         eventID,
			TokenID:         tok.ID.String(),
			ClaimantAddress: tok.Owner.ID,
			ClaimantENS:     tok.Owner.ENS,
			ClaimedAt:       claimedAt,
			TransferCount:   tok.TransferCount,
		})
	}
	return claims, nil
}

// GetAddressCollection fetches the POAPs held by an address.
func (c *Client) GetAddressCollection(ctx context.Context, address string, limit int) ([]domain.ClaimRecord, error) {
	endpoint := "/actions/scan/" + url.PathEscape(address)
	params := url.Values{}
	params.Set("limit", fmt.Sprint(limit))
	params.Set("offset", "0")

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var records []scanRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &ParseError{Endpoint: endpoint, Err: err}
	}

	claims := make([]domain.ClaimRecord, 0, len(records))
	for _, rec := range records {
		claimedAt, err := parseClaimTime(rec.Created)
		if err != nil {
			c.logger.Warn("skipping collected token with bad timestamp",
				"address", address,
				"token_id", rec.TokenID.String(),
				"error", err,
			)
			continue
		}
		claims = append(claims, domain.ClaimRecord{
			EventID:         rec.Event.ID,
			EventName:       rec.Event.Name,
			EventImageURL:   rec.Event.ImageURL,
			TokenID:         rec.TokenID.String(),
			ClaimantAddress: address,
			ClaimedAt:       claimedAt,
			TransferCount:   rec.TransferCount,
		})
	}
	return claims, nil
}

// get issues an authenticated GET. A 401 triggers exactly one
// credential refresh-and-retry; a second 401 surfaces as AuthError.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	body, status, err := c.do(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.logger.Warn("unauthorized response, refreshing credential", "endpoint", endpoint)
		c.auth.Invalidate()

		body, status, err = c.do(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, &AuthError{Err: fmt.Errorf("still unauthorized after refresh: %s", endpoint)}
		}
	}
	if status < 200 || status > 299 {
		return nil, &UpstreamError{Status: status, Body: string(body)}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, 0, err
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "POAP2RSS/1.0")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
