// Package rest implements service.Service against the todo REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"todoctl/internal/config"
	"todoctl/internal/todo"
)

const (
	// HeaderSkipErrorInterceptor asks for the raw error instead of a
	// normalized one.
	HeaderSkipErrorInterceptor = "X-Skip-Error-Interceptor"

	todosPath = "todos"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDefaultRetries sets the retry count used when a call does not pass
// its own.
func WithDefaultRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithTimeout bounds each call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a REST client from config. When token.json exists its access
// token is sent as a bearer token.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	httpClient := &http.Client{}
	if cfg.HasToken() {
		data, err := os.ReadFile(cfg.TokenPath())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read token.json")
		}
		var token oauth2.Token
		if err := json.Unmarshal(data, &token); err != nil {
			return nil, errors.Wrap(err, "invalid token.json")
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	}
	return NewWithHTTPClient(httpClient, cfg.Settings.BaseURL,
		WithDefaultRetries(cfg.Settings.Retries),
		WithTimeout(cfg.Settings.Timeout),
		WithLogger(logger),
	)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
func NewWithHTTPClient(httpClient *http.Client, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(u.String(), "/") + "/",
		retries:    config.DefaultRetries,
		timeout:    config.DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	retries         int
	skipInterceptor bool
}

// WithRetries overrides the retry count for one call.
func WithRetries(n int) CallOption {
	return func(o *callOptions) { o.retries = n }
}

// SkipErrorInterceptor returns the raw HTTP error for one call instead of a
// normalized one.
func SkipErrorInterceptor() CallOption {
	return func(o *callOptions) { o.skipInterceptor = true }
}

// Get issues a GET and decodes the answer into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts)
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts)
}

// ListTodos implements service.Service.
func (c *Client) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.Get(ctx, todosPath, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo implements service.Service.
func (c *Client) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	var t todo.Todo
	if err := c.Get(ctx, todoPath(id), &t); err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// CreateTodo implements service.Service.
func (c *Client) CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	var created todo.Todo
	if err := c.Post(ctx, todosPath, t, &created); err != nil {
		return todo.Todo{}, err
	}
	return created, nil
}

// UpdateTodo implements service.Service.
func (c *Client) UpdateTodo(ctx context.Context, t todo.Todo) (todo.Patch, error) {
	var patch todo.Patch
	if err := c.Put(ctx, todoPath(t.ID), t, &patch); err != nil {
		return todo.Patch{}, err
	}
	return patch, nil
}

// DeleteTodo implements service.Service.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.Delete(ctx, todoPath(id), nil)
}

func todoPath(id string) string {
	return todosPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts []CallOption) error {
	o := callOptions{retries: c.retries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retries < 0 {
		o.retries = 0
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	attempts := o.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = c.attempt(ctx, method, path, payload, out, o)
		if lastErr == nil {
			return nil
		}
		c.logger.Debug("http attempt failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("of", attempts),
			zap.Error(lastErr),
		)
		if ctx.Err() != nil {
			attempts = attempt
			break
		}
	}
	return &RequestError{Method: method, Path: path, Attempts: attempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any, o callOptions) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.skipInterceptor {
		req.Header.Set(HeaderSkipErrorInterceptor, "true")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			StatusCode: res.StatusCode,
			StatusText: statusText(res),
			Body:       data,
		}
		if !o.skipInterceptor {
			apiErr.Message = normalizeMessage(apiErr.StatusText, data)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
