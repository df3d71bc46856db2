package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/metrics"
	"golang.org/x/time/rate"
)

// HTTPClientConfig configures RateLimitedClient.
type HTTPClientConfig struct {
	Source            string // feed source name, used to label circuit-breaker metrics
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // consecutive failures before the circuit opens
}

// DefaultHTTPClientConfig returns conservative defaults suitable for a
// polling aggregator that rate-limits scrapers.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryWaitMin:      200 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         5.0,
		CircuitBreakerMax: 5,
	}
}

// RateLimitedClient wraps retryablehttp.Client with a token-bucket rate
// limiter and a simple consecutive-failure circuit breaker, shared by
// every feed.Source that talks HTTP.
type RateLimitedClient struct {
	source            string
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	consecutiveErrors int
	isOpen            bool
	lastError         error
	logger            *logrus.Logger
}

// NewRateLimitedClient builds a RateLimitedClient from cfg.
func NewRateLimitedClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryOnTransientStatus
	retryClient.Logger = nil // logrus wiring happens at the call sites below

	return &RateLimitedClient{
		source:            cfg.Source,
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		logger:            logger,
	}
}

// Do executes req, honoring the rate limiter and circuit breaker.
func (c *RateLimitedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.isOpen {
		return nil, fmt.Errorf("feed: circuit breaker open, last error: %v", c.lastError)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("feed: rate limiter: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(rreq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}
	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
		c.isOpen = false
	}
	return resp, nil
}

func (c *RateLimitedClient) recordFailure(err error) {
	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors >= c.circuitBreakerMax {
		wasOpen := c.isOpen
		c.isOpen = true
		if !wasOpen {
			metrics.RecordCircuitBreakerTrip(c.source)
		}
		if c.logger != nil {
			c.logger.WithError(err).WithField("consecutive_errors", c.consecutiveErrors).
				Warn("feed HTTP circuit breaker opened")
		}
	}
}

// Get issues a GET request through the client.
func (c *RateLimitedClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Close releases idle connections held by the underlying client.
func (c *RateLimitedClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func retryOnTransientStatus(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil {
		return true, err
	}
	switch resp.StatusCode {
	case 429, 500, 502, 503, 504:
		return true, nil
	default:
		return false, nil
	}
}
