// Package httpclient provides the JSON HTTP client shared by the weather and
// creature providers: random User-Agent, retry with backoff on transient
// statuses, and singleflight coalescing of identical in-flight GETs.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/corpix/uarand"
	"golang.org/x/sync/singleflight"

	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Client performs JSON GET requests with retry and request coalescing.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxRetries   int
	initialDelay time.Duration
	group        singleflight.Group
	metrics      *metrics.Metrics
	component    string
}

// Option configures a Client.
type Option func(*Client)

// WithRetry sets the retry count (0 = single attempt) and first backoff delay.
func WithRetry(maxRetries int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialDelay = initialDelay
	}
}

// WithMetrics records coalesced requests and failed responses under component.
func WithMetrics(m *metrics.Metrics, component string) Option {
	return func(c *Client) {
		c.metrics = m
		c.component = component
	}
}

// NewClient creates a client whose individual attempts time out after timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:      timeout,
		maxRetries:   2,
		initialDelay: 300 * time.Millisecond,
		component:    "httpclient",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the JSON body into out.
// Concurrent calls for the same URL share one request. The shared request is
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	ch := c.group.DoChan(url, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedBudget())
		defer cancel()
		return c.get(sctx, url)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.Shared {
		c.metrics.RecordSingleflightDedup(c.component)
	}
	if res.Err != nil {
		return res.Err
	}

	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// sharedBudget bounds a coalesced request: every attempt plus its jittered backoff.
func (c *Client) sharedBudget() time.Duration {
	if c.timeout <= 0 {
		return time.Minute
	}
	budget := c.timeout
	delay := c.initialDelay
	for range c.maxRetries {
		budget += c.timeout + delay*2
		delay *= 2
	}
	return budget
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := RetryWithBackoff(ctx, c.maxRetries, c.initialDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return Permanent(ctx.Err())
			}
			c.metrics.RecordHTTPError("transport", c.component)
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
			c.metrics.RecordHTTPError("status_"+strconv.Itoa(resp.StatusCode), c.component)
			statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
			if retryableStatus(resp.StatusCode) {
				return statusErr
			}
			return Permanent(statusErr)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
