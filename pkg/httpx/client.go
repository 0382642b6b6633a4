// Package httpx wraps net/http for calls to third-party APIs: every attempt is
// bounded by a timeout and a failed attempt is retried exactly once.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxAttempts    = 2
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response status deserves a second attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client performs JSON/form requests with a per-attempt timeout and one retry
type Client struct {
	http    *http.Client
	timeout time.Duration
	backoff time.Duration
}

// New creates a client. A zero timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{},
		timeout: timeout,
		backoff: 200 * time.Millisecond,
	}
}

// Request describes one outbound call. Body is re-read on retry, so it is kept as bytes.
type Request struct {
	Method      string
	URL         string
	Header      http.Header
	Body        []byte
	ContentType string
}

// JSONRequest builds a request with a JSON encoded payload
func JSONRequest(method, url string, payload interface{}) (Request, error) {
	req := Request{Method: method, URL: url, Header: http.Header{}}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return req, err
		}
		req.Body = b
		req.ContentType = "application/json"
	}
	return req, nil
}

// Do executes the request and decodes a 2xx JSON response into out (nil to discard)
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.once(ctx, req)
		if err == nil {
			if out == nil || len(body) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}

		lastErr = err
		if !retryable(ctx, err) || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, req Request) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	// transport errors and per-attempt timeouts
	return true
}

// Retry runs fn with a per-attempt timeout and retries once on error.
// It is used for SDK based collaborators that do not go through Client.
func Retry(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = fn(attemptCtx)
		cancel()
		if lastErr == nil || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}
