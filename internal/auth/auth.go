// Package auth obtains, refreshes and validates Spotify access tokens.
//
// Tokens are exchanged with the accounts service through [golang.org/x/oauth2]
// and persisted to a [tokens.Store]. Every path that cannot produce a usable
// token ends in [shared.ErrAuth].
//
// The authorization-code flow is not implemented. A user session exists only
// when tokens were stored by a previous refresh or by `spotctl auth import`.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tokens"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL   = "https://accounts.spotify.com/api/token"
	DefaultAPIBaseURL = "https://api.spotify.com/v1"
	defaultTimeout    = 10 * time.Second
)

// Options configures a [Flow]. Zero values fall back to the Spotify endpoints,
// a 10 second HTTP client, [time.Now] and a discarding logger.
type Options struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIBaseURL   string
	HTTPClient   *http.Client
	Store        tokens.Store
	Now          func() time.Time
	Logger       *log.Logger
}

// Flow owns the token lifecycle.
type Flow struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiBaseURL   string
	httpClient   *http.Client
	store        tokens.Store
	now          func() time.Time
	logger       *log.Logger
}

// NewFlow creates a [Flow]. A nil store is replaced with an empty [tokens.MemoryStore].
func NewFlow(opts Options) *Flow {
	f := &Flow{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		tokenURL:     opts.TokenURL,
		apiBaseURL:   strings.TrimRight(opts.APIBaseURL, "/"),
		httpClient:   opts.HTTPClient,
		store:        opts.Store,
		now:          opts.Now,
		logger:       opts.Logger,
	}

	if f.tokenURL == "" {
		f.tokenURL = DefaultTokenURL
	}
	if f.apiBaseURL == "" {
		f.apiBaseURL = DefaultAPIBaseURL
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if f.store == nil {
		f.store = tokens.NewMemoryStore(nil)
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	return f
}

// Store returns the store tokens are persisted to.
func (f *Flow) Store() tokens.Store { return f.store }

// Token returns the persisted token.
func (f *Flow) Token() (models.Token, bool, error) {
	return tokens.Load(f.store)
}

// AcquireClientCredentials exchanges the client id and secret for an app token and persists it.
//
// The token carries no user identity: it serves catalog endpoints such as search, not playback.
func (f *Flow) AcquireClientCredentials(ctx context.Context) (models.Token, error) {
	if f.clientID == "" || f.clientSecret == "" {
		return models.Token{}, fmt.Errorf("%w: %w: client id and secret are required", shared.ErrAuth, shared.ErrMissingCredentials)
	}

	cfg := clientcredentials.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		TokenURL:     f.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	issued := f.now()
	tok, err := cfg.Token(f.exchangeContext(ctx))
	if err != nil {
		return models.Token{}, exchangeError("client credentials", err)
	}

	token := models.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt(tok, issued),
	}
	if err := tokens.Save(f.store, token); err != nil {
		return models.Token{}, err
	}

	f.logger.Debug("acquired app token", "expires_at", token.Expiry().Format(time.RFC3339))
	return token, nil
}

// EnsureAppToken keeps a valid stored token, acquiring a client-credentials token otherwise.
func (f *Flow) EnsureAppToken(ctx context.Context) error {
	tok, ok, err := tokens.Load(f.store)
	if err != nil {
		return err
	}
	if ok && tok.Valid(f.now()) {
		return nil
	}

	_, err = f.AcquireClientCredentials(ctx)
	return err
}

// EnsureUserSession verifies that the stored token still belongs to a signed-in user.
//
// A valid token is checked once against /me. There is no sign-in fallback.
func (f *Flow) EnsureUserSession(ctx context.Context) error {
	tok, ok, err := tokens.Load(f.store)
	if err != nil {
		return err
	}

	if ok && tok.Valid(f.now()) {
		err := f.checkToken(ctx, tok.AccessToken)
		if err == nil {
			return nil
		}
		f.logger.Debug("session check failed", "err", err)
	}

	return fmt.Errorf("%w: %w", shared.ErrAuth, shared.ErrSessionRequired)
}

// Refresh exchanges the stored refresh token for a new access token.
//
// Without a refresh token, or when the exchange fails, the result is that of [Flow.EnsureUserSession].
func (f *Flow) Refresh(ctx context.Context) error {
	tok, _, err := tokens.Load(f.store)
	if err != nil {
		return err
	}
	if tok.RefreshToken == "" {
		f.logger.Debug("no refresh token stored, checking session")
		return f.EnsureUserSession(ctx)
	}

	cfg := oauth2.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  f.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	issued := f.now()
	next, err := cfg.TokenSource(f.exchangeContext(ctx), &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	if err != nil {
		f.logger.Warn("refresh failed, falling back to session check", "err", exchangeError("refresh", err))
		return f.EnsureUserSession(ctx)
	}

	refreshed := models.Token{
		AccessToken:  next.AccessToken,
		RefreshToken: next.RefreshToken,
		ExpiresAt:    expiresAt(next, issued),
	}
	if err := tokens.Save(f.store, refreshed); err != nil {
		return err
	}

	f.logger.Debug("refreshed access token",
		"rotated", refreshed.RefreshToken != "" && refreshed.RefreshToken != tok.RefreshToken,
		"expires_at", refreshed.Expiry().Format(time.RFC3339))
	return nil
}

// Import stores tokens obtained outside spotctl. A non-positive lifetime stores an already expired token.
func (f *Flow) Import(accessToken, refreshToken string, lifetime time.Duration) (models.Token, error) {
	if accessToken == "" {
		return models.Token{}, fmt.Errorf("%w: access token", shared.ErrMissingArgument)
	}

	tok := models.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    f.now().Add(max(lifetime, 0)).UnixMilli(),
	}
	if err := tokens.Save(f.store, tok); err != nil {
		return models.Token{}, err
	}
	return tok, nil
}

// Logout forgets every stored token.
func (f *Flow) Logout() error {
	return tokens.Clear(f.store)
}

func (f *Flow) exchangeContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

func (f *Flow) checkToken(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiBaseURL+"/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// expiresAt returns issue time plus the server-declared lifetime in epoch milliseconds.
func expiresAt(tok *oauth2.Token, issued time.Time) int64 {
	if secs, ok := expiresIn(tok); ok {
		return issued.UnixMilli() + secs*1000
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.UnixMilli()
	}
	return issued.UnixMilli()
}

func expiresIn(tok *oauth2.Token) (int64, bool) {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func exchangeError(grant string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		if re.ErrorCode != "" {
			return fmt.Errorf("%w: %s exchange rejected with status %d (%s)", shared.ErrAuth, grant, re.Response.StatusCode, re.ErrorCode)
		}
		return fmt.Errorf("%w: %s exchange rejected with status %d", shared.ErrAuth, grant, re.Response.StatusCode)
	}
	return fmt.Errorf("%w: %s exchange failed: %v", shared.ErrAuth, grant, err)
}
