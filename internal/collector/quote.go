package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const quotesPath = "/marketdata/v1/quotes"

// NewHTTPClient builds the brokerage client with a bounded timeout and
// optional proxy support.
func NewHTTPClient(baseURL string, timeout time.Duration, proxyURL string) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return c
}

// QuoteFetcher implements Fetcher against the brokerage quotes endpoint.
type QuoteFetcher struct {
	Client *resty.Client
	Symbol string
	Auth   Authenticator
	log    zerolog.Logger
}

// NewQuoteFetcher creates a fetcher for a single symbol.
func NewQuoteFetcher(client *resty.Client, symbol string, auth Authenticator, logger zerolog.Logger) *QuoteFetcher {
	return &QuoteFetcher{Client: client, Symbol: symbol, Auth: auth, log: logger}
}

func (f *QuoteFetcher) Name() string { return "schwab" }

// FetchPrice requests the quote, refreshing the token and retrying once on 401.
func (f *QuoteFetcher) FetchPrice(ctx context.Context) (float64, error) {
	resp, err := f.get(ctx)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		f.log.Info().Msg("access token rejected, refreshing")
		if err := f.Auth.Refresh(ctx); err != nil {
			return 0, fmt.Errorf("refresh after 401: %w", err)
		}
		resp, err = f.get(ctx)
		if err != nil {
			return 0, err
		}
	}

	if resp.StatusCode() != http.StatusOK {
		f.log.Warn().Int("status", resp.StatusCode()).Str("body", truncate(resp.String(), 200)).Msg("quote request failed")
		return 0, &FetchError{Status: resp.StatusCode()}
	}

	price, field, err := ExtractPrice(resp.Body(), f.Symbol)
	if err != nil {
		return 0, fmt.Errorf("parse quote for %s: %w", f.Symbol, err)
	}
	f.log.Debug().Str("field", field).Float64("price", price).Msg("quote received")
	return price, nil
}

func (f *QuoteFetcher) get(ctx context.Context) (*resty.Response, error) {
	resp, err := f.Client.R().
		SetContext(ctx).
		SetAuthToken(f.Auth.AccessToken()).
		SetQueryParam("symbols", f.Symbol).
		Get(quotesPath)
	if err != nil {
		f.log.Warn().Err(err).Msg("quote request transport error")
		return nil, &FetchError{Status: StatusTransport, Err: err}
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
