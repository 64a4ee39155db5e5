// Package upstream talks to the upstream JSON API the dashboard reads from.
package upstream

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

	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// Request kinds used as metric labels.
const (
	KindJSON = "json"
	KindText = "text"
)

// Client fetches resources relative to a base URL.
type Client struct {
	base       string
	httpClient *http.Client
	timeout    time.Duration
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d >= 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// New returns a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", baseURL)
	}
	c := &Client{
		base:       strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// URL joins path onto the base with exactly one slash between them.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// FetchJSON issues GET base+path and returns the body once it is known to be
// valid JSON. The HTTP status is not inspected: an error page that happens to
// be JSON is returned like any other document.
func (c *Client) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.get(ctx, path)
	if err != nil {
		c.record(ctx, KindJSON, path, metrics.OutcomeTransportError, start, err)
		return nil, err
	}
	if !json.Valid(body) {
		err = &ParseError{Path: path, Err: errors.New("body is not valid JSON")}
		c.record(ctx, KindJSON, path, metrics.OutcomeParseError, start, err)
		return nil, err
	}
	c.record(ctx, KindJSON, path, metrics.OutcomeOK, start, nil)
	return json.RawMessage(body), nil
}

// FetchText issues GET base+path and returns the body as text.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	start := time.Now()
	body, err := c.get(ctx, path)
	if err != nil {
		c.record(ctx, KindText, path, metrics.OutcomeTransportError, start, err)
		return "", err
	}
	c.record(ctx, KindText, path, metrics.OutcomeOK, start, nil)
	return string(body), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	target := c.URL(path)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	return body, nil
}

func (c *Client) record(ctx context.Context, kind, path, outcome string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.RecordUpstreamRequest(kind, outcome, float64(elapsed.Milliseconds()))
	if err != nil {
		c.log.Warn(ctx, "upstream request failed",
			logger.String("kind", kind),
			logger.String("path", path),
			logger.String("outcome", outcome),
			logger.Error(err))
		return
	}
	c.log.Debug(ctx, "upstream request",
		logger.String("kind", kind),
		logger.String("path", path),
		logger.Duration("took", elapsed))
}
