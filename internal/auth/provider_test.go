package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStaticProvider(t *testing.T) {
	got, err := Static("abc").Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", got)

	got, err = Anonymous().Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRefresherKeepsFreshToken(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
	}))
	defer srv.Close()

	initial := signedToken(t, time.Hour)
	r := NewRefresher(srv.URL, "rt", initial, 30*time.Second)

	got, err := r.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, initial, got)
	require.Zero(t, fetches, "a token far from expiry must not trigger a refresh")
}

func TestRefresherRefreshesExpiredToken(t *testing.T) {
	fresh := signedToken(t, time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "rt", body["refresh_token"])
		json.NewEncoder(w).Encode(map[string]string{"access_token": fresh})
	}))
	defer srv.Close()

	expired := signedToken(t, -time.Minute)
	r := NewRefresher(srv.URL, "rt", expired, 30*time.Second)

	got, err := r.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)

	// Second call reuses the refreshed token.
	got, err = r.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
}

func TestRefresherFetchesWhenEmpty(t *testing.T) {
	fresh := signedToken(t, time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": fresh})
	}))
	defer srv.Close()

	r := NewRefresher(srv.URL, "rt", "", 30*time.Second)
	got, err := r.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
}

func TestRefresherWithoutRefreshToken(t *testing.T) {
	r := NewRefresher("http://localhost:0", "", "", 30*time.Second)
	_, err := r.Token(context.Background())
	require.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefresherIdentityServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewRefresher(srv.URL, "rt", "", 30*time.Second)
	_, err := r.Token(context.Background())
	require.Error(t, err)
}

func TestRefresherConcurrentCallers(t *testing.T) {
	fresh := signedToken(t, time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": fresh})
	}))
	defer srv.Close()

	r := NewRefresher(srv.URL, "rt", "", 30*time.Second)
	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := r.Token(context.Background())
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}
}
