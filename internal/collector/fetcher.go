package collector

import "context"

// Fetcher defines the interface for fetching the current contract price.
type Fetcher interface {
	FetchPrice(ctx context.Context) (float64, error)
	Name() string
}

// Authenticator supplies bearer tokens and renews them on demand.
type Authenticator interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}
