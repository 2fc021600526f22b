package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avrelia/mdexport/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	defaultMaxAttempts = 6
	defaultRetryDelay  = 10 * time.Second
)

// Options configures a single transport request.
type Options struct {
	Query  url.Values  // query parameters appended to the URL
	JSON   any         // request body, marshalled as JSON when non-nil
	Header http.Header // extra headers
	NoAuth bool        // skip the Authorization header (login, token exchange)
}

// Response is a successful HTTP response with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HTTPError is an unsuccessful HTTP response surfaced to the caller.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// TokenSource yields the current bearer token. It is read fresh on every
// request so workers observe a refreshed token after a reauth.
type TokenSource interface {
	Token() string
}

// RefreshFunc re-runs the login handshake and updates the token source.
type RefreshFunc func(ctx context.Context) error

// Client issues HTTP calls with bounded retry on network failure and one
// transparent reauthentication on an expired-credential response.
//
// The client has no knowledge of request semantics; every service reuses it
// identically.
type Client struct {
	http        *http.Client
	tokens      TokenSource
	refresh     RefreshFunc
	loginURL    string
	logger      *log.Logger
	maxAttempts int
	retryDelay  time.Duration
}

// NewClient creates a transport client. The HTTP client defaults to
// [http.DefaultClient] and the logger to a stderr logger.
func NewClient(httpClient *http.Client, tokens TokenSource, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Client{
		http:        httpClient,
		tokens:      tokens,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// SetRefresh installs the reauthentication hook. Requests to loginURL itself
// are never reauthenticated.
func (c *Client) SetRefresh(loginURL string, fn RefreshFunc) {
	c.loginURL = loginURL
	c.refresh = fn
}

// SetRetry overrides the retry schedule. Used by tests to avoid real delays.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.maxAttempts = attempts
	c.retryDelay = delay
}

// Send issues a request and returns its response.
//
// Network failures are retried up to the attempt cap with a fixed delay
// between attempts, then surfaced wrapping [shared.ErrNetwork]. A 401 on a
// non-login URL with a refresh hook installed triggers exactly one re-login
// and one retry of the original call; a 401 on that retry wraps
// [shared.ErrAuthFailed]. Any other unsuccessful status is surfaced
// immediately as an [*HTTPError].
func (c *Client) Send(ctx context.Context, method, rawURL string, opts Options) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		resp, err := c.do(ctx, method, rawURL, opts)
		if err != nil {
			lastErr = err
			if attempt < c.maxAttempts-1 {
				c.logger.Warnf("request failed (%v), retrying in %v [%d/%d]", err, c.retryDelay, attempt+1, c.maxAttempts)
				select {
				case <-time.After(c.retryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
			return nil, fmt.Errorf("%w after %d attempts: %v", shared.ErrNetwork, c.maxAttempts, lastErr)
		}

		if resp.StatusCode == http.StatusUnauthorized && c.refresh != nil && rawURL != c.loginURL {
			c.logger.Warn("session expired (401), attempting re-login")
			if rerr := c.refresh(ctx); rerr != nil {
				return nil, fmt.Errorf("%w: re-login failed: %v", shared.ErrAuthFailed, rerr)
			}
			retry, rerr := c.do(ctx, method, rawURL, opts)
			if rerr != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, rerr)
			}
			if retry.StatusCode == http.StatusUnauthorized {
				return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, &HTTPError{Status: retry.StatusCode, Body: string(retry.Body)})
			}
			if retry.StatusCode < 200 || retry.StatusCode >= 300 {
				return nil, &HTTPError{Status: retry.StatusCode, Body: string(retry.Body)}
			}
			return retry, nil
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, &HTTPError{Status: resp.StatusCode, Body: string(resp.Body)})
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &HTTPError{Status: resp.StatusCode, Body: string(resp.Body)}
		}

		return resp, nil
	}
	return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, lastErr)
}

// do performs a single request attempt. The bearer token is read from the
// token source at call time, never captured earlier.
func (c *Client) do(ctx context.Context, method, rawURL string, opts Options) (*Response, error) {
	fullURL := rawURL
	if len(opts.Query) > 0 {
		fullURL = rawURL + "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.JSON != nil {
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.JSON != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if !opts.NoAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
