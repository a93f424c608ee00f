package patchstorage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CatalogSource = (*Client)(nil)

// maxBodySize caps listing and detail bodies read into memory.
const maxBodySize = 32 << 20

// ClientConfig is the transport configuration shared by all requests.
type ClientConfig struct {
	// BaseURL is the API root, e.g. https://patchstorage.com/api/beta.
	BaseURL string

	// Token is sent as "Authorization: Bearer <token>".
	Token string

	// UserAgent identifies the client; the service rejects anonymous agents.
	UserAgent string

	// PerPage is used when a PageRequest leaves it unset.
	PerPage int

	// RateLimit is the proactive request rate. 0 disables throttling.
	RateLimit float64

	// RequestTimeout bounds listing and detail requests. 0 means none.
	RequestTimeout time.Duration

	// Transport overrides the base round tripper. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// ConfigFromSettings converts application settings into a ClientConfig.
func ConfigFromSettings(s domain.APISettings) ClientConfig {
	return ClientConfig{
		BaseURL:        s.BaseURL,
		Token:          s.Token,
		UserAgent:      s.UserAgent,
		PerPage:        s.PerPage,
		RateLimit:      s.RateLimit,
		RequestTimeout: s.RequestTimeout,
	}
}

// Client talks to the Patchstorage API.
type Client struct {
	cfg         ClientConfig
	http        *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client. The config is copied and never mutated.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, domain.ErrAuthRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: base url: %w", domain.ErrInvalidInput, err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = domain.DefaultPerPage
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// No client-level timeout: downloads enforce their own per-attempt
	// deadline and listing/detail use RequestTimeout.
	plain := &headerTransport{base: base, userAgent: cfg.UserAgent}
	httpClient := &http.Client{
		Transport: &scopedAuthTransport{
			auth: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
				Base:   plain,
			},
			plain: plain,
		},
	}

	return &Client{
		cfg:         cfg,
		http:        httpClient,
		rateLimiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() ClientConfig {
	return c.cfg
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// getJSON performs a throttled GET and returns the body of a 2xx response.
// Non-2xx statuses become *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := c.send(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    snippet(body),
			URL:        endpoint,
		}
	}
	return body, nil
}

// send waits for the rate limiter and issues a GET.
func (c *Client) send(ctx context.Context, endpoint string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	c.rateLimiter.UpdateFromResponse(resp)
	return resp, nil
}

func (c *Client) endpoint(path string) string {
	return c.cfg.BaseURL + path
}

// scopedAuthTransport sends the bearer token only to the host of the
// request the caller issued. A redirect to another host goes out without it.
type scopedAuthTransport struct {
	auth  http.RoundTripper
	plain http.RoundTripper
}

func (t *scopedAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if origin := originalRequest(req); origin.URL.Host != req.URL.Host {
		return t.plain.RoundTrip(req)
	}
	return t.auth.RoundTrip(req)
}

// originalRequest follows the redirect chain back to the first request.
func originalRequest(req *http.Request) *http.Request {
	for req.Response != nil && req.Response.Request != nil {
		req = req.Response.Request
	}
	return req
}

// headerTransport sets the headers every request must carry.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}
