// Package auth provides token providers for the request gateway. Tokens are
// opaque bearer credentials issued by an external identity service; the only
// thing inspected locally is the exp claim, to time refreshes.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
)

// ErrNoRefreshToken is returned when a refresh is needed but no refresh
// credential was configured.
var ErrNoRefreshToken = errors.New("no refresh token configured")

// Static returns a provider that always yields the given token.
func Static(token string) StaticProvider { return StaticProvider(token) }

// StaticProvider yields a fixed credential.
type StaticProvider string

func (p StaticProvider) Token(context.Context) (string, error) { return string(p), nil }

// Anonymous returns a provider that never yields a credential.
func Anonymous() StaticProvider { return StaticProvider("") }

// Refresher holds a bearer JWT and exchanges a long-lived refresh token at the
// identity endpoint when the current one is within Leeway of expiry. It is
// safe for concurrent use; concurrent callers each obtain a token
// independently, and a fetch already satisfied by another caller is skipped.
type Refresher struct {
	TokenURL     string
	RefreshToken string
	Leeway       time.Duration

	HTTP *http.Client

	mu      sync.Mutex
	current string
	expiry  time.Time
}

// NewRefresher creates a refreshing provider seeded with an initial token
// (which may be empty).
func NewRefresher(tokenURL, refreshToken, initial string, leeway time.Duration) *Refresher {
	r := &Refresher{
		TokenURL:     tokenURL,
		RefreshToken: refreshToken,
		Leeway:       leeway,
		HTTP:         &http.Client{Timeout: 15 * time.Second},
		current:      initial,
	}
	if initial != "" {
		r.expiry = expiryOf(initial)
	}
	return r
}

// Token returns the held credential, refreshing it first if expired or close
// to expiry.
func (r *Refresher) Token(ctx context.Context) (string, error) {
	r.mu.Lock()
	token, expiry := r.current, r.expiry
	r.mu.Unlock()

	if token != "" && (expiry.IsZero() || time.Until(expiry) > r.Leeway) {
		return token, nil
	}

	fresh, freshExpiry, err := r.fetch(ctx)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	// Another caller may have refreshed meanwhile; keep whichever expires later.
	if r.current == "" || r.expiry.Before(freshExpiry) {
		r.current, r.expiry = fresh, freshExpiry
	}
	token = r.current
	r.mu.Unlock()
	return token, nil
}

func (r *Refresher) fetch(ctx context.Context) (string, time.Time, error) {
	if r.RefreshToken == "" {
		return "", time.Time{}, ErrNoRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refresh_token": r.RefreshToken})
	if err != nil {
		return "", time.Time{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token refresh: unexpected status code: %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", time.Time{}, fmt.Errorf("token refresh: %w", err)
	}
	if payload.AccessToken == "" {
		return "", time.Time{}, errors.New("token refresh: empty access_token")
	}

	expiry := expiryOf(payload.AccessToken)
	logger.L.Debug("refreshed bearer token", "expiry", expiry)
	return payload.AccessToken, expiry, nil
}

// expiryOf reads the exp claim without verifying the signature; verification
// is the backend's job. A token without a readable exp never self-expires
// locally and is used until the backend rejects it.
func expiryOf(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
