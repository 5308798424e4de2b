package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxBody bounds how much of a response body is read.
const maxBody = 4 << 20

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying.
func Transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// CheckResponse returns nil for 2xx responses. Otherwise it drains and
// closes the body and returns a [StatusError], wrapped in [RetryableError]
// when the status is transient. A Retry-After header given in seconds sets
// the retry wait.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	if Transient(resp.StatusCode) {
		return &RetryableError{Err: err, After: retryAfter(resp.Header)}
	}
	return err
}

func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Client posts JSON with retry.
type Client struct {
	HTTP     *http.Client
	Attempts int
	Delay    time.Duration
	Header   http.Header
}

// NewClient returns a Client with the given timeout, 3 attempts and a one
// second initial backoff.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		Attempts: 3,
		Delay:    time.Second,
	}
}

// PostJSON encodes in, POSTs it to url and decodes the response into out.
// Network errors and transient statuses are retried.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	return Retry(ctx, c.Attempts, c.Delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, vs := range c.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RetryableError{Err: err}
		}
		if err := CheckResponse(resp); err != nil {
			return err
		}
		defer resp.Body.Close()

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
