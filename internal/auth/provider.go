package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tasksync/internal/settings"
)

// TasksScope is the OAuth scope required for the remote task API.
const TasksScope = "https://www.googleapis.com/auth/tasks"

var (
	// ErrConfigIncomplete means client credentials are missing; no
	// network call is attempted.
	ErrConfigIncomplete = errors.New("client credentials not configured")

	// ErrNotAuthenticated means there is no refresh token and no valid
	// access token; an interactive login is required.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrRefreshFailed means the token refresh round trip failed. The
	// stored refresh token is kept; the caller retries on the next
	// cycle instead of forcing re-login.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// Provider hands out a currently valid access token, refreshing it
// through the token endpoint when the stored one has expired.
// It is the single writer of the session store.
type Provider struct {
	store    Store
	settings *settings.Settings

	// endpoint is the OAuth token endpoint; replaced in tests.
	endpoint oauth2.Endpoint

	// now is stubbed in tests.
	now func() time.Time

	mu sync.Mutex
}

// NewProvider creates a Provider over the given store and settings.
func NewProvider(store Store, cfg *settings.Settings) *Provider {
	return &Provider{
		store:    store,
		settings: cfg,
		endpoint: google.Endpoint,
		now:      time.Now,
	}
}

// OAuthConfig returns the oauth2 client configuration built from the
// settings. The redirect URL is filled in by the login flow.
func (p *Provider) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.settings.GoogleClientID,
		ClientSecret: p.settings.GoogleClientSecret,
		Scopes:       []string{TasksScope},
		Endpoint:     p.endpoint,
	}
}

// AccessToken returns a valid access token, refreshing it first when
// the stored one is missing or expired. It never returns a token known
// to be expired.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	if !p.settings.Complete() {
		return "", ErrConfigIncomplete
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}

	if session.Valid(p.now()) {
		return session.AccessToken, nil
	}

	refreshToken := session.RefreshToken
	if refreshToken == "" {
		// Manual entry fallback for devices without a login flow.
		refreshToken = p.settings.GoogleRefreshToken
	}
	if refreshToken == "" {
		return "", ErrNotAuthenticated
	}

	refreshed, err := p.refresh(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	if err := p.store.Save(refreshed); err != nil {
		return "", fmt.Errorf("saving refreshed session: %w", err)
	}
	return refreshed.AccessToken, nil
}

// refresh exchanges the refresh token for a new access token. Exactly
// one token-endpoint round trip per call.
func (p *Provider) refresh(ctx context.Context, refreshToken string) (Session, error) {
	source := p.OAuthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return Session{}, err
	}

	// The endpoint may rotate the refresh token; keep the old one when
	// it doesn't.
	if token.RefreshToken != "" {
		refreshToken = token.RefreshToken
	}

	return Session{
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       token.Expiry,
	}, nil
}
