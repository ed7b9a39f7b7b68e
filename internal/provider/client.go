// Package provider calls the third-party evaluation API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"applygate/internal/transform"
)

const (
	// DefaultURL is the provider's sandbox evaluation endpoint.
	DefaultURL = "https://sandbox.alloy.co/v1/evaluations"

	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxResponseBytes caps how much of a provider body is read.
	DefaultMaxResponseBytes = 10 << 20
)

// Credentials authenticate the gateway to the provider with HTTP Basic auth.
type Credentials struct {
	Token  string
	Secret string
}

// Response is a successful (2xx) provider answer.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Client performs single-attempt evaluation calls.
type Client struct {
	url        string
	creds      Credentials
	timeout    time.Duration
	maxBody    int64
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxResponseBytes overrides DefaultMaxResponseBytes.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// NewClient builds a provider client. Empty credentials are sent as-is so the
// provider, not the gateway, decides whether the call is authorized.
func NewClient(url string, creds Credentials, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:     url,
		creds:   creds,
		timeout: DefaultTimeout,
		maxBody: DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Evaluate posts payload to the provider once. Non-2xx answers and transport
// failures come back as *Error.
func (c *Client) Evaluate(ctx context.Context, payload transform.Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Category: CategoryInternal, Message: "encode payload", Underlying: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Category: CategoryInternal, Message: "build request", Underlying: err}
	}
	req.SetBasicAuth(c.creds.Token, c.creds.Secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &Error{Category: CategoryBadData, Message: "read provider response", Underlying: err}
	}
	if int64(len(respBody)) > c.maxBody {
		return nil, &Error{
			Category: CategoryBadData,
			Message:  fmt.Sprintf("provider response (status %d) exceeds %d bytes", resp.StatusCode, c.maxBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, respBody)
	}

	return &Response{Status: resp.StatusCode, Body: asJSON(respBody)}, nil
}

func (c *Client) transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Category:   CategoryTimeout,
			Message:    fmt.Sprintf("timeout of %s exceeded", c.timeout),
			Underlying: err,
		}
	}
	return &Error{Category: CategoryNetwork, Message: "provider unreachable", Underlying: err}
}

// asJSON keeps JSON bodies verbatim and wraps anything else as a JSON string so
// the gateway can always embed the body in its own response.
func asJSON(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
