// Package todoapi talks to the remote TODO HTTP API.
package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todoclient/internal/todo"
)

const (
	// DefaultTimeout bounds every API call when no timeout is configured.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes  = 8 << 20
	maxErrorBytes = 4 << 10
)

// ErrInvalidResponse is returned when a 2xx response body does not match the
// expected payload shape.
var ErrInvalidResponse = errors.New("invalid response payload")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client is a JSON client for the /todos endpoints under a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport (tests, proxies).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for baseURL, e.g. "https://api.example.com/dev".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint base this client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

type writeRequest struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var out []todo.Todo
	if err := c.do(ctx, "list todos", http.MethodGet, "/todos", nil, nil, &out, listSchema); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Search asks the API for todos matching query. An empty result is a valid
// "no matches" answer, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]todo.Todo, error) {
	q := url.Values{}
	q.Set("query", query)
	var out []todo.Todo
	if err := c.do(ctx, "search todos", http.MethodGet, "/todos/search", q, nil, &out, listSchema); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Update sends the full task/completed pair for id and returns the server's
// view of the item.
func (c *Client) Update(ctx context.Context, id todo.ID, task string, completed bool) (todo.Todo, error) {
	var out todo.Todo
	body := writeRequest{Task: task, Completed: completed}
	if err := c.do(ctx, "update todo", http.MethodPut, "/todos/"+url.PathEscape(id.String()), nil, body, &out, updateSchema); err != nil {
		return todo.Todo{}, err
	}
	return out, nil
}

// Create posts a new, not yet completed todo.
func (c *Client) Create(ctx context.Context, task string) (todo.Todo, error) {
	var out todo.Todo
	body := writeRequest{Task: task, Completed: false}
	if err := c.do(ctx, "create todo", http.MethodPost, "/todos", nil, body, &out, createSchema); err != nil {
		return todo.Todo{}, err
	}
	return out, nil
}

// Delete removes id. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id todo.ID) error {
	return c.do(ctx, "delete todo", http.MethodDelete, "/todos/"+url.PathEscape(id.String()), nil, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any, schema *jsonschema.Schema) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + encodeQuery(query)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	c.logger.Debug("api request", "op", op, "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "op", op, "request_id", requestID, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response", "op", op, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if err := validate(schema, data); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	return nil
}

// encodeQuery escapes spaces as %20, not "+". Literal pluses are already %2B.
func encodeQuery(q url.Values) string {
	return strings.ReplaceAll(q.Encode(), "+", "%20")
}

func nonNil(todos []todo.Todo) []todo.Todo {
	if todos == nil {
		return []todo.Todo{}
	}
	return todos
}
