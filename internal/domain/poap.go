package domain

import "time"

// EventRecord describes a POAP drop. Immutable once fetched.
type EventRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	StartDate   time.Time `json:"start_date"`
}

// ClaimRecord is one minted POAP token. A claimant appearing twice with
// different timestamps (re-claim or transfer) is two distinct records.
type ClaimRecord struct {
	EventID         int64     `json:"event_id"`
	EventName       string    `json:"event_name,omitempty"`
	EventImageURL   string    `json:"event_image_url,omitempty"`
	TokenID         string    `json:"token_id"`
	ClaimantAddress string    `json:"claimant_address"`
	ClaimantENS     string    `json:"claimant_ens,omitempty"`
	ClaimedAt       time.Time `json:"claimed_at"`
	TransferCount   int       `json:"transfer_count"`
}
