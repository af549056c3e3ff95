package poap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// eventResponse is the POAP /events/id/{id} payload.
type eventResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	City        string `json:"city"`
	Country     string `json:"country"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	ExpiryDate  string `json:"expiry_date"`
}

// tokenRecord is one holder row from /event/{id}/poaps. The endpoint
// wraps rows under "tokens" in newer API versions and returns a bare
// array in older ones; eventTokensResponse accepts both.
type tokenRecord struct {
	ID      json.Number `json:"id"`
	Created string      `json:"created"`
	Owner   struct {
		ID  string `json:"id"`
		ENS string `json:"ens"`
	} `json:"owner"`
	TransferCount int `json:"transfer_count"`
}

type eventTokensResponse struct {
	Tokens []tokenRecord
}

func (r *eventTokensResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Tokens)
	}
	var wrapped struct {
		Tokens []tokenRecord `json:"tokens"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	r.Tokens = wrapped.Tokens
	return nil
}

// scanRecord is one row from /actions/scan/{address}.
type scanRecord struct {
	TokenID json.Number `json:"tokenId"`
	Created string      `json:"created"`
	Owner   string      `json:"owner"`
	Event   struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	} `json:"event"`
	TransferCount int `json:"transfer_count"`
}

// claimTimeLayouts are the timestamp shapes the POAP API has been seen
// emitting. Naked timestamps are assumed UTC.
var claimTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseClaimTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "UTC"))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range claimTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
