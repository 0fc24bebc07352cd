package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"CornTicker/internal/model"
)

const tokenPath = "/v1/oauth/token"

// CredentialSaver persists the full credential set.
type CredentialSaver interface {
	Save(c *model.Credentials) error
}

// TokenManager owns the credential set and renews the access token with the
// refresh-token grant.
type TokenManager struct {
	mu       sync.Mutex
	creds    *model.Credentials
	store    CredentialSaver
	tokenURL string
	client   *http.Client
	log      zerolog.Logger
}

// NewTokenManager creates a TokenManager. client is used for the token
// exchange so it shares the quote client's timeout and proxy.
func NewTokenManager(baseURL string, creds *model.Credentials, store CredentialSaver, client *http.Client, logger zerolog.Logger) *TokenManager {
	return &TokenManager{
		creds:    creds,
		store:    store,
		tokenURL: strings.TrimRight(baseURL, "/") + tokenPath,
		client:   client,
		log:      logger,
	}
}

// AccessToken returns the current bearer token.
func (m *TokenManager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.AccessToken
}

// Credentials returns a copy of the current credential set.
func (m *TokenManager) Credentials() model.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.creds
}

// Refresh exchanges the refresh token for a new token pair and persists it.
// It performs at most one request and never retries.
func (m *TokenManager) Refresh(ctx context.Context) error {
	current := m.Credentials()
	if !current.CanRefresh() {
		m.log.Error().Msg("cannot refresh token: app key, app secret or refresh token is empty")
		return ErrMissingCredentials
	}

	conf := &oauth2.Config{
		ClientID:     current.AppKey,
		ClientSecret: current.AppSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	client, status := m.recordingClient()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	// An expired token with no access token forces exactly one refresh grant.
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken}).Token()

	// oauth2 accepts any 2xx; only 200 carries a usable token pair.
	if s := status.code; s != 0 && s != http.StatusOK && s/100 == 2 {
		m.log.Error().Int("status", s).Msg("refresh failed")
		return &RefreshError{Status: s, Err: err}
	}
	if err != nil {
		return m.classify(err)
	}

	// oauth2 carries the old refresh token forward when the response omits
	// one; the raw field tells us whether the server actually sent it.
	rt, _ := tok.Extra("refresh_token").(string)
	if tok.AccessToken == "" || rt == "" {
		m.log.Error().Msg("token response missing access_token or refresh_token")
		return ErrProtocol
	}

	m.mu.Lock()
	m.creds.AccessToken, m.creds.RefreshToken = tok.AccessToken, rt
	updated := *m.creds
	m.mu.Unlock()

	if err := m.store.Save(&updated); err != nil {
		m.log.Error().Err(err).Msg("token refreshed but credentials could not be persisted")
	}
	m.log.Info().Msg("token refreshed")
	return nil
}

// statusRecorder remembers the status of the last response it carried.
type statusRecorder struct {
	base http.RoundTripper
	code int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if resp != nil {
		r.code = resp.StatusCode
	}
	return resp, err
}

// recordingClient returns a copy of the exchange client whose transport
// records the response status.
func (m *TokenManager) recordingClient() (*http.Client, *statusRecorder) {
	client := &http.Client{}
	if m.client != nil {
		*client = *m.client
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	rec := &statusRecorder{base: base}
	client.Transport = rec
	return client, rec
}

func (m *TokenManager) classify(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		status := StatusTransport
		if rErr.Response != nil {
			status = rErr.Response.StatusCode
		}
		m.log.Error().Int("status", status).Msg("refresh failed")
		return &RefreshError{Status: status, Err: err}
	}
	var uErr *url.Error
	if errors.As(err, &uErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		m.log.Error().Err(err).Msg("refresh failed: transport error")
		return &RefreshError{Status: StatusTransport, Err: err}
	}
	m.log.Error().Err(err).Msg("refresh failed: unreadable token response")
	return fmt.Errorf("%w: %v", ErrProtocol, err)
}
