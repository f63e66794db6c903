package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode marks a response body that could not be decoded. Callers can test
// for it with errors.Is.
var ErrDecode = errors.New("malformed response body")

// CredentialError reports a token provider failure. The request was not sent.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("fetching credential: %v", e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx backend response. Detail carries the
// backend's structured error message when one was present.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Unauthorized reports whether the backend rejected the request for lack of a
// valid credential.
func (e *StatusError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
