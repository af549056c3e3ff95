package poap

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound marks a 404 from the upstream API (unknown event or
	// address). Matched via errors.Is on an *UpstreamError.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited marks a 429 from the upstream API.
	ErrRateLimited = errors.New("rate limited")
)

// UpstreamError is a non-2xx response from the POAP API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("poap api status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

// AuthError is a failed credential exchange or a 401 that survived the
// single built-in refresh-and-retry.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("poap auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ParseError is a 2xx response whose body could not be decoded.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse poap response from %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
