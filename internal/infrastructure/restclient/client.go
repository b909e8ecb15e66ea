// Package restclient is the HTTP helper shared by every master-data API module.
// It attaches JSON headers, never retries, and turns non-2xx responses into
// *HTTPError values carrying the status and the backend's message.
package restclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the REST client for the master-data backend.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger used for per-call debug logging
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets a client-wide timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithMetrics records each call on m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHeader adds a default header sent with every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.http.SetHeader(key, value)
	}
}

// New creates a client rooted at baseURL (origin + API prefix).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// File is one multipart file part
type File struct {
	Name   string
	Reader io.Reader
}

// Request represents an HTTP request to be executed.
type Request struct {
	Method string
	// Path is relative to the base URL unless it is an absolute URL.
	Path        string
	QueryParams map[string]string
	Headers     map[string]string
	Body        any
	// Files and FormData switch the request to multipart/form-data.
	Files    map[string]File
	FormData map[string]string
	// Route is the low-cardinality label used for metrics, e.g.
	// "/get_master/{tablename}". Defaults to Path.
	Route string
}

func (r Request) multipart() bool {
	return len(r.Files) > 0 || len(r.FormData) > 0
}

func (r Request) route() string {
	if r.Route != "" {
		return r.Route
	}
	return r.Path
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do executes the request once. A transport failure is returned as an error;
// HTTP error statuses are returned as a Response for the caller to inspect.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	r := c.http.R().SetContext(ctx)
	if len(req.QueryParams) > 0 {
		r.SetQueryParams(req.QueryParams)
	}
	if req.multipart() {
		for field, f := range req.Files {
			r.SetFileReader(field, f.Name, f.Reader)
		}
		if len(req.FormData) > 0 {
			r.SetFormData(req.FormData)
		}
	} else {
		r.SetHeader("Content-Type", "application/json")
		if req.Body != nil {
			r.SetBody(req.Body)
		}
	}
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	duration := time.Since(start)

	if err != nil {
		c.metrics.observe(req.Method, req.route(), 0, duration)
		c.logger.Debug("backend call failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
		Duration:   duration,
	}
	c.metrics.observe(req.Method, req.route(), out.StatusCode, duration)
	c.logger.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", out.StatusCode),
		zap.Duration("latency", duration),
	)
	return out, nil
}

// RequestJSON executes req and decodes a 2xx JSON body into T. An empty body
// yields the zero value. Non-2xx statuses yield *HTTPError.
func RequestJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T

	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if !resp.IsSuccess() {
		return out, NewHTTPError(resp.StatusCode, resp.Body)
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decoding %s %s response: %w", req.Method, req.Path, err)
	}
	return out, nil
}

// Expect executes req and discards the body, failing on non-2xx.
func (c *Client) Expect(ctx context.Context, req Request) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return NewHTTPError(resp.StatusCode, resp.Body)
	}
	return nil
}
