// Package booru provides a rate-limited client for the board's JSON API.
package booru

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
	"github.com/tagpull/tagpull/internal/ratelimit"
)

const (
	// Board-side cap on posts per page.
	MaxPageSize = 200

	// Rate limit: the board asks API consumers to stay around 10 req/s.
	defaultRPS   = 5.0
	defaultBurst = 5

	defaultTimeout = 30 * time.Second
)

// Client is a rate-limited client for one board domain.
type Client struct {
	domain  string
	baseURL string
	auth    string // precomputed basic auth value, empty when unauthenticated
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the Authorization: Basic credential value.
func WithAuth(basicAuth string) Option {
	return func(c *Client) {
		c.auth = basicAuth
	}
}

// WithLimiter shares a rate limiter across clients, keyed by domain.
func WithLimiter(l *ratelimit.KeyedRateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithBaseURL overrides the https://{domain} base, for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// NewClient creates a client for the given board domain.
func NewClient(dom string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		domain:  dom,
		baseURL: "https://" + dom,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = ratelimit.New(defaultRPS, defaultBurst)
	}
	return c
}

// Domain returns the board domain this client talks to.
func (c *Client) Domain() string {
	return c.domain
}

// Posts fetches one page of posts matching the query.
// A non-200 response is a transport error identifying the page and status.
func (c *Client) Posts(ctx context.Context, query string, page, limit int) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("tags", query)
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("limit", fmt.Sprintf("%d", limit))

	reqURL := c.baseURL + "/posts.json?" + params.Encode()

	c.logger.Debug("fetching posts",
		"domain", c.domain,
		"query", query,
		"page", page,
	)

	var posts []domain.Post
	if err := c.getJSON(ctx, reqURL, &posts, fmt.Sprintf("search page %d", page)); err != nil {
		return nil, err
	}
	return posts, nil
}

// Post fetches a single post by id.
func (c *Client) Post(ctx context.Context, id int) (*domain.Post, error) {
	reqURL := fmt.Sprintf("%s/posts/%d.json", c.baseURL, id)

	c.logger.Debug("fetching post", "domain", c.domain, "id", id)

	var post domain.Post
	if err := c.getJSON(ctx, reqURL, &post, fmt.Sprintf("post %d", id)); err != nil {
		return nil, err
	}
	return &post, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any, what string) error {
	if err := c.limiter.Wait(ctx, c.domain); err != nil {
		return errors.Transportf("%s: rate limit wait", what).WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Transportf("%s: create request", what).WithCause(err)
	}
	if c.auth != "" {
		req.Header.Set("Authorization", "Basic "+c.auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Transportf("%s: request failed", what).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NotFoundf("%s: status %d", what, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Transportf("%s: status %d", what, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Transportf("%s: parse response", what).WithCause(err)
	}
	return nil
}
