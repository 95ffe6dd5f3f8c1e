// Package alphavantage is a client for the Alpha Vantage query API.
package alphavantage

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"alphavantage/internal/errs"
	"alphavantage/internal/httpx"
	"alphavantage/internal/ratelimit"
)

const (
	// DefaultBaseURL is the single query endpoint of the API.
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// DefaultRateLimitDelay keeps a free tier key under its published limit.
	DefaultRateLimitDelay = 12 * time.Second
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	apiKeyParam = "apikey"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Alpha Vantage API. It is safe for concurrent
// use; requests from all goroutines share one throttle.
type Client struct {
	// baseURL is the query endpoint.
	baseURL *url.URL
	// apiKey is attached to every dispatched request and nowhere else.
	apiKey string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// timeout is used when a call does not ask for its own.
	timeout time.Duration
	// throttle spaces consecutive dispatches.
	throttle *ratelimit.MinInterval
	// quota optionally caps requests per minute.
	quota *ratelimit.Quota
	logger *zap.Logger

	Stocks     *Stocks
	Forex      *Forex
	Crypto     *Crypto
	Indicators *Indicators
}

type settings struct {
	baseURL           string
	httpClient        HTTPClient
	header            http.Header
	timeout           time.Duration
	rateLimitDelay    time.Duration
	requestsPerMinute int
	logger            *zap.Logger
}

// Option is a configuration option for the client.
type Option func(*settings)

// WithBaseURL sets the query endpoint.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used to dispatch requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(s *settings) {
		for key, values := range header {
			for _, value := range values {
				s.header.Add(key, value)
			}
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithRateLimitDelay sets the minimum spacing between dispatches. Zero
// disables spacing.
func WithRateLimitDelay(delay time.Duration) Option {
	return func(s *settings) {
		if delay >= 0 {
			s.rateLimitDelay = delay
		}
	}
}

// WithRequestsPerMinute additionally caps the number of requests per
// minute. Zero leaves only the spacing rule.
func WithRequestsPerMinute(n int) Option {
	return func(s *settings) {
		s.requestsPerMinute = n
	}
}

// WithLogger sets the logger. Requests are logged at debug level and
// failures at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewClient creates a new client. A missing key is a credential failure
// reported before any request is made.
func NewClient(apiKey string, options ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errs.Credential("Alpha Vantage API key is required. Set ALPHA_VANTAGE_API_KEY " +
			"environment variable, provide the api key flag, or add api_key to the config file")
	}

	s := settings{
		baseURL:        DefaultBaseURL,
		header:         http.Header{},
		timeout:        DefaultTimeout,
		rateLimitDelay: DefaultRateLimitDelay,
		logger:         zap.NewNop(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.httpClient == nil {
		// Deadlines come from the per-request context.
		s.httpClient = httpx.New(0)
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL: %q is not absolute", s.baseURL)
	}

	c := &Client{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: s.httpClient,
		header:     s.header,
		timeout:    s.timeout,
		throttle:   ratelimit.NewMinInterval(s.rateLimitDelay),
		quota:      ratelimit.NewQuota(s.requestsPerMinute, 1),
		logger:     s.logger,
	}
	c.Stocks = &Stocks{c: c}
	c.Forex = &Forex{c: c}
	c.Crypto = &Crypto{c: c}
	c.Indicators = &Indicators{c: c}
	return c, nil
}

// RateLimitDelay returns the configured spacing between dispatches.
func (c *Client) RateLimitDelay() time.Duration { return c.throttle.Interval() }

// LastDispatch returns when the most recent request was sent.
func (c *Client) LastDispatch() time.Time { return c.throttle.Last() }
