// Package api implements the authenticated request gateway: an HTTP client
// bound to one backend base URL that attaches a fresh bearer credential to
// every outgoing request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
)

// TokenProvider yields a currently valid bearer token, refreshing if the
// previous one expired. An empty token with a nil error means the caller has
// no credential; the request proceeds anonymously and the backend decides.
// Implementations must be safe for concurrent use.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client is an HTTP client scoped to one API base address. Every request
// fetches a token from the provider before transmission; there is no token
// cache here and no retry policy.
type Client struct {
	baseURL string
	tokens  TokenProvider
	http    *http.Client

	tracer   trace.Tracer
	requests metric.Int64Counter
	failures metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a gateway client for the given base URL and token provider.
func New(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 60 * time.Second},
		tracer:  otel.Tracer("studybuddy/api"),
	}
	meter := otel.Meter("studybuddy/api")
	c.requests, _ = meter.Int64Counter("api.requests",
		metric.WithDescription("Requests issued through the gateway"))
	c.failures, _ = meter.Int64Counter("api.failures",
		metric.WithDescription("Requests that ended in an error"))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues a JSON request. A non-nil body is encoded as the request payload
// and a non-nil out receives the decoded response. Failures are surfaced as
// distinct error values: *CredentialError (provider failed), wrapped transport
// errors, *StatusError (non-2xx), and ErrDecode-wrapped decode errors.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(ctx, req, out)
}

// Upload issues a multipart/form-data request with a single file field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("%s %s", req.Method, req.URL.Path),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.path", req.URL.Path),
		))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			if c.failures != nil {
				c.failures.Add(ctx, 1)
			}
		}
		span.End()
	}()
	if c.requests != nil {
		c.requests.Add(ctx, 1)
	}

	// Fresh token on every request; staleness policy lives in the provider.
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &CredentialError{Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); readErr == nil {
			if json.Unmarshal(raw, &detail) == nil {
				statusErr.Detail = detail.Detail
			}
		}
		logger.L.Debug("backend error", "method", req.Method, "path", req.URL.Path,
			"status", resp.StatusCode, "detail", statusErr.Detail)
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
