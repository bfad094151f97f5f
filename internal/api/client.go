// Package api is the HTTP client for the backup backend's repository endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"repotoggle/internal/domain"
	"repotoggle/internal/logging"
)

// Endpoint paths, relative to the base URL
const (
	PathRepos      = "repos"
	PathActive     = "active"
	PathActivate   = "activate"
	PathDeactivate = "deactivate"
	PathImport     = "import"
)

// HeaderRequestID carries the per-request correlation id
const HeaderRequestID = "X-Request-ID"

const (
	defaultTimeout = 10 * time.Second
	maxBody        = 4 << 20
)

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	user       *url.Userinfo
	http       *http.Client
	userAgent  string
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
	log        logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every single request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry makes list requests try up to attempts times, delay apart.
// Toggle requests are never retried.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend at baseURL.
// Userinfo in baseURL is sent as basic auth and removed from logged URLs.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}

	c := &Client{
		user:      u.User,
		http:      &http.Client{},
		userAgent: "repotoggle",
		timeout:   defaultTimeout,
		attempts:  1,
		log:       logging.Nop(),
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	c.base = u

	for _, opt := range opts {
		opt(c)
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	c.log = c.log.Named("api")
	return c, nil
}

// BaseURL returns the backend address without credentials
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Repos returns every repository name the backend knows about
func (c *Client) Repos(ctx context.Context) ([]string, error) {
	return c.getList(ctx, "list repos", PathRepos)
}

// Active returns the names of the repositories currently marked active
func (c *Client) Active(ctx context.Context) ([]string, error) {
	return c.getList(ctx, "list active", PathActive)
}

// Activate marks name active
func (c *Client) Activate(ctx context.Context, name string) error {
	return c.SetActive(ctx, name, true)
}

// Deactivate marks name inactive
func (c *Client) Deactivate(ctx context.Context, name string) error {
	return c.SetActive(ctx, name, false)
}

// SetActive calls /activate or /deactivate for name. The response body is ignored.
func (c *Client) SetActive(ctx context.Context, name string, active bool) error {
	action := PathDeactivate
	if active {
		action = PathActivate
	}
	_, err := c.get(ctx, action, action, url.Values{"name": {name}})
	return err
}

// ImportURL returns the address that starts a server-side import of the given sources.
// It keeps the shape the backend has always received: "import?user=true&starred=true&".
// Userinfo from the base URL is included so the browser can authenticate; do not log the result.
func (c *Client) ImportURL(sources []domain.ImportSource) string {
	u := c.endpoint(PathImport)
	if c.user != nil {
		u.User = c.user
	}
	var q strings.Builder
	for _, s := range sources {
		q.WriteString(url.QueryEscape(string(s)))
		q.WriteString("=true&")
	}
	u.RawQuery = q.String()
	u.ForceQuery = true
	return u.String()
}

func (c *Client) endpoint(path string) *url.URL {
	return c.base.JoinPath(path)
}

func (c *Client) getList(ctx context.Context, op, path string) ([]string, error) {
	var names []string
	err := retry.Do(
		func() error {
			body, err := c.get(ctx, op, path, nil)
			if err != nil {
				return err
			}
			names, err = decodeNames(body)
			if err != nil {
				return &ServerError{Op: op, URL: c.endpoint(path).String(), StatusCode: http.StatusOK, Body: truncateBody(body), Err: err}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warnw("retrying request", "op", op, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if !IsNetworkError(err) && !IsServerError(err) {
			err = &NetworkError{Op: op, URL: c.endpoint(path).String(), Err: err}
		}
		return nil, err
	}
	return names, nil
}

func decodeNames(body []byte) ([]string, error) {
	names := []string{}
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("decode name list: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// retryable reports whether a failed list request is worth repeating
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return IsNetworkError(err)
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	u := c.endpoint(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	target := u.String()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.user != nil {
		pass, ok := c.user.Password()
		if !ok {
			// A bare token@host userinfo carries the secret as the user name
			pass = c.user.Username()
		}
		req.SetBasicAuth(c.user.Username(), pass)
	}

	log := c.log.With("op", op, "url", target, "request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnw("request failed", "error", err, "elapsed", time.Since(start))
		return nil, &NetworkError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.Warnw("reading response failed", "status", resp.StatusCode, "error", err)
		return nil, &NetworkError{Op: op, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnw("request rejected", "status", resp.StatusCode, "elapsed", time.Since(start))
		return nil, &ServerError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(truncateBody(body)),
		}
	}

	log.Debugw("request done", "status", resp.StatusCode, "elapsed", time.Since(start))
	return body, nil
}
