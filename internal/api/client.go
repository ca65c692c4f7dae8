// Package api is the REST client for the hostel-management API. All request
// signing, error decoding and 401 mapping happens in one place; resource
// methods stay thin.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hostelbook-client/internal/auth"
	"hostelbook-client/internal/logger"
)

// maxResponseSize caps response bodies so a misbehaving server cannot
// exhaust memory.
const maxResponseSize = 4 * 1024 * 1024

// Client calls the remote hostel API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(client *Client) {
		client.logger = l
	}
}

// NewClient creates a client for the API at baseURL. Requests are signed
// with tokens; pass auth.Static("") for the unauthenticated endpoints only.
func NewClient(baseURL string, tokens auth.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		logger:     logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a signed request and decodes the JSON response into out (when
// out is non-nil). Non-2xx responses come back as *Error, with 401 wrapped
// in ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.send(ctx, method, path, query, body, out, true, "")
}

// doIdempotent is do with an idempotency key header, used for the POSTs that
// create bookings and deposits.
func (c *Client) doIdempotent(ctx context.Context, method, path string, body, out any, idemKey string) error {
	return c.send(ctx, method, path, nil, body, out, true, idemKey)
}

// doPublic issues an unsigned request (forgot/reset password).
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, nil, body, out, false, "")
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, signed bool, idemKey string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idemKey != "" {
		req.Header.Set("X-Idempotency-Key", idemKey)
	}

	if signed {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	c.logger.Debug("api call", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// decodeError turns a non-2xx response into an *Error carrying the server's
// message, falling back to a generic one when the body is not parseable.
func (c *Client) decodeError(status int, data []byte) error {
	var body errorBody
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.text()
	} else {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" || len(msg) > 512 {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	apiErr := &Error{StatusCode: status, Message: msg}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return apiErr
}
