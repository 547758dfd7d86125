// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/staranto/mthctl/internal/cache"
)

const (
	// DefaultBaseURL is used when neither an option nor MTH_API_BASE_URL
	// names the backend.
	DefaultBaseURL = "http://localhost:3000/api"

	// DefaultTimeout bounds a single request when the caller does not supply
	// its own http.Client.
	DefaultTimeout = 45 * time.Second

	// BaseURLEnv names the environment variable holding the base URL.
	BaseURLEnv = "MTH_API_BASE_URL"
)

// options holds the overrides collected from Option values.
type options struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	clock      func() time.Time
	token      string
	userAgent  string
}

// Option customizes a Client.
type Option func(*options)

// WithBaseURL sets the API root, for example "https://mth.example.org/api".
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient replaces the http.Client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTTL sets how long read results are cached. Defaults to
// cache.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock injects the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithToken sets the bearer token sent in the Authorization header.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// Client talks to the backend and caches idempotent reads. A Client is safe
// for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	token     string
	userAgent string
	cache     *cache.Cache
	group     singleflight.Group

	mu       sync.Mutex
	inflight map[string]int
}

// NewClient returns a Client. Without options it targets MTH_API_BASE_URL, or
// DefaultBaseURL when that is unset, and caches reads for five minutes.
func NewClient(opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		o.baseURL = os.Getenv(BaseURLEnv)
	}
	if o.baseURL == "" {
		o.baseURL = DefaultBaseURL
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if o.userAgent == "" {
		o.userAgent = "mthctl"
	}

	var cacheOpts []cache.Option
	if o.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.clock))
	}

	return &Client{
		baseURL:   strings.TrimRight(o.baseURL, "/"),
		http:      o.httpClient,
		token:     o.token,
		userAgent: o.userAgent,
		cache:     cache.New(o.ttl, cacheOpts...),
		inflight:  make(map[string]int),
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ClearCache drops every cached read.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.forget("")
}

// invalidate drops the cached read stored under key.
func (c *Client) invalidate(key string) {
	c.cache.Delete(key)
	c.forget(key)
}

// invalidatePrefix drops every cached read whose key starts with prefix and
// returns how many entries were removed.
func (c *Client) invalidatePrefix(prefix string) int {
	n := c.cache.DeletePrefix(prefix)
	c.forget(prefix)
	return n
}

// track counts the shared fetches running for key.
func (c *Client) track(key string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key] += delta
	if c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

// forget detaches the in-flight reads whose key starts with prefix, so that
// later callers issue a new request instead of joining one that predates an
// invalidation.
func (c *Client) forget(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.inflight {
		if strings.HasPrefix(key, prefix) {
			c.group.Forget(key)
		}
	}
}

// CacheState returns a snapshot of the read cache.
func (c *Client) CacheState() cache.State {
	return c.cache.State()
}
