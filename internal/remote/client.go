package remote

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
	"syscall"
	"time"
)

// APIKeyHeader carries the API key on every request.
const APIKeyHeader = "X-API-Key"

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 500 * time.Millisecond
	maxResponseSize    = 50 << 20
)

// Sentinel errors for sandbox requests.
var (
	ErrNotFound = errors.New("sandbox not found")
	ErrConflict = errors.New("sandbox already exists")
)

// ServerError is a 5xx response from the execution service.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("execution service returned %d: %s", e.StatusCode, e.Body)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithMaxAttempts sets the total attempts per request (1 = no retry).
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxAttempts = n
	}
}

// WithRetryDelay sets the first backoff delay. It doubles on every retry.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// Client talks to the execution service over HTTP. It implements Service.
type Client struct {
	baseURL     string
	apiKey      string
	http        *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		http:        &http.Client{},
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Create provisions a sandbox. The id is chosen by the caller, so a conflict
// means an earlier attempt that reported failure did create it.
func (c *Client) Create(ctx context.Context, req CreateRequest) error {
	err := c.do(ctx, http.MethodPost, "/sandboxes", req, nil, isTransient)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// Execute runs code in sandbox id. Running code is not idempotent, so the
// request is only repeated when it never reached the service.
func (c *Client) Execute(ctx context.Context, id string, req ExecuteRequest) (*Execution, error) {
	var out Execution
	if err := c.do(ctx, http.MethodPost, "/sandboxes/"+url.PathEscape(id)+"/execute", req, &out, isUndelivered); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete destroys sandbox id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sandboxes/"+url.PathEscape(id), nil, nil, isTransient)
}

// do sends a request, retrying failures accepted by retryable with
// exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, in, out any, retryable func(error) bool) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	delay := c.retryDelay

	for attempt := range c.maxAttempts {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
				delay *= 2
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		err := c.once(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("execution service unreachable after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ServerError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("execution service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// isTransient reports whether err is worth retrying.
func isTransient(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}

// isUndelivered reports whether the request never reached the service.
func isUndelivered(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
