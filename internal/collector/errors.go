package collector

import (
	"errors"
	"fmt"
)

// StatusTransport is reported when no HTTP response was received.
const StatusTransport = -1

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrProtocol           = errors.New("malformed token response")
	ErrSchema             = errors.New("quote object missing for symbol")
	ErrNoValidPrice       = errors.New("no valid price in quote")
)

// RefreshError reports a failed token exchange. Status is the HTTP status or
// StatusTransport.
type RefreshError struct {
	Status int
	Err    error
}

func (e *RefreshError) Error() string {
	if e.Status == StatusTransport {
		return fmt.Sprintf("token refresh failed: %v", e.Err)
	}
	return fmt.Sprintf("token refresh failed: status %d", e.Status)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// FetchError reports a failed quote request. Status is the HTTP status or
// StatusTransport.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == StatusTransport {
		return fmt.Sprintf("fetch quote: %v", e.Err)
	}
	return fmt.Sprintf("fetch quote: status %d", e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NeedsLogin reports whether err means the token pair can no longer be
// renewed without operator action.
func NeedsLogin(err error) bool {
	if errors.Is(err, ErrMissingCredentials) {
		return true
	}
	var rErr *RefreshError
	if errors.As(err, &rErr) {
		return rErr.Status >= 400 && rErr.Status < 500
	}
	return false
}
