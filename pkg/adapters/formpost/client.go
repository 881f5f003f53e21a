// Package formpost submits checkout records to an HTTP endpoint as
// application/x-www-form-urlencoded POST requests.
package formpost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/checkout/pkg/domain"
)

// DefaultTimeout bounds a single submission attempt.
const DefaultTimeout = 10 * time.Second

// maxAckBytes caps how much of the response body is kept as acknowledgment.
const maxAckBytes = 64 << 10

// ErrNoEndpoint is returned when the client has nowhere to post.
var ErrNoEndpoint = errors.New("submission endpoint not configured")

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server response was not ok: %d", e.StatusCode)
}

// Client implements ports.Submitter.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-attempt timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a client posting to endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid submission endpoint: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid submission endpoint %q: scheme must be http or https", endpoint)
		}
	}

	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Encode renders the record as a form body. Keys are sorted.
func Encode(record domain.Submission) string {
	form := url.Values{}
	for k, v := range record.Fields() {
		form.Set(k, v)
	}
	return form.Encode()
}

// Submit makes a single POST. Any 2xx answer is a success and its body
// is returned as the acknowledgment.
func (c *Client) Submit(ctx context.Context, record domain.Submission) (string, error) {
	if c.endpoint == "" {
		return "", ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(Encode(record)))
	if err != nil {
		return "", fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("submission request failed", "endpoint", c.endpoint, "error", err)
		return "", fmt.Errorf("failed to post submission: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read submission response: %w", err)
	}

	c.logger.Debug("submission response",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}
