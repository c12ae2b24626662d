// Package reddit is the client for the community content platform's public JSON API.
// It covers the two read endpoints the pipeline needs: search listings and thread details.
package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/logger"
)

// Defaults for the public API.
const (
	DefaultBaseURL       = "https://www.reddit.com"
	DefaultUserAgent     = "web:learnscout:v1.0"
	DefaultTimeout       = 30 * time.Second
	DefaultSearchLimit   = 50
	DefaultMaxReplyDepth = 50

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 16 << 20
)

// Error represents an HTTP-level failure talking to the platform.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reddit error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("reddit error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	SearchLimit   int
	MaxReplyDepth int
}

// DefaultOptions returns sensible defaults for the public API.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:       DefaultBaseURL,
		UserAgent:     DefaultUserAgent,
		Timeout:       DefaultTimeout,
		SearchLimit:   DefaultSearchLimit,
		MaxReplyDepth: DefaultMaxReplyDepth,
	}
}

// Client issues search and detail requests. It holds no per-run state and is safe for
// concurrent use.
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a client. Zero-valued options fall back to defaults.
func NewClient(opts *Options, log logger.Logger) *Client {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}

	resolved := *opts
	if resolved.BaseURL == "" {
		resolved.BaseURL = defaults.BaseURL
	}
	resolved.BaseURL = strings.TrimRight(resolved.BaseURL, "/")
	if resolved.UserAgent == "" {
		resolved.UserAgent = defaults.UserAgent
	}
	if resolved.Timeout <= 0 {
		resolved.Timeout = defaults.Timeout
	}
	if resolved.SearchLimit <= 0 {
		resolved.SearchLimit = defaults.SearchLimit
	}
	if resolved.MaxReplyDepth <= 0 {
		resolved.MaxReplyDepth = defaults.MaxReplyDepth
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		http: &http.Client{Timeout: resolved.Timeout},
		opts: resolved,
		log:  log.With(zap.String("component", "reddit")),
		now:  time.Now,
	}
}

// get performs a GET against path on the base URL and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	// raw_json=1 returns bodies without HTML entity escaping
	query.Set("raw_json", "1")

	reqURL := c.opts.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{URL: reqURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: reqURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &Error{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{URL: reqURL, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	return body, nil
}
