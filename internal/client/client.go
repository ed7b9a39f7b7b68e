// Package client is the submitting side of the gateway: it posts applicant
// records to POST /apply and turns answers into outcome cards.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"applygate/internal/applicant"
	"applygate/internal/outcome"
)

// DefaultBaseURLs mirror the server's port probing: 5000 first, then 5001.
var DefaultBaseURLs = []string{"http://localhost:5000", "http://localhost:5001"}

const (
	genericFailure     = "An error occurred while processing your application"
	unreachableMessage = "Failed to connect to server. Please try again."
)

var (
	// ErrSubmissionFailed is wrapped by every non-2xx answer from the gateway.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrUnreachable means no gateway base URL accepted the connection.
	ErrUnreachable = errors.New(unreachableMessage)
)

// SubmissionError describes a non-2xx gateway answer.
type SubmissionError struct {
	Status  int
	Message string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap lets callers match ErrSubmissionFailed.
func (e *SubmissionError) Unwrap() error {
	return ErrSubmissionFailed
}

// Result is a successful evaluation as seen by the client.
type Result struct {
	Status  int
	Outcome outcome.Label
	Full    json.RawMessage
}

type applyResponse struct {
	Outcome string          `json:"outcome"`
	Full    json.RawMessage `json:"full"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client submits applicant records to the gateway.
type Client struct {
	baseURLs   []string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger enables debug logging of fallbacks between base URLs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New builds a client. Base URLs are tried in order until one accepts the
// connection; an empty list selects DefaultBaseURLs.
func New(baseURLs []string, opts ...Option) *Client {
	if len(baseURLs) == 0 {
		baseURLs = DefaultBaseURLs
	}
	c := &Client{
		baseURLs:   baseURLs,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply sends rec, with its address nested, to POST /apply. A non-2xx answer
// returns *SubmissionError; callers should show a generic failure for any of
// them. Only a refused or failed dial moves on to the next base URL; once a
// gateway has accepted the connection the request may already be in flight,
// so any later transport error is returned as is.
func (c *Client) Apply(ctx context.Context, rec applicant.Record) (*Result, error) {
	body, err := json.Marshal(Nest(rec))
	if err != nil {
		return nil, fmt.Errorf("encode applicant: %w", err)
	}

	var lastErr error
	for _, base := range c.baseURLs {
		resp, err := c.post(ctx, strings.TrimRight(base, "/")+"/apply", body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !isDialError(err) {
				return nil, fmt.Errorf("submit to %s: %w", base, err)
			}
			c.logger.DebugContext(ctx, "gateway unreachable, trying next", "base_url", base, "error", err)
			lastErr = err
			continue
		}
		return decode(resp)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnreachable, lastErr)
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func decode(resp *http.Response) (*Result, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &SubmissionError{Status: resp.StatusCode, Message: genericFailure}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		msg := genericFailure
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, &SubmissionError{Status: resp.StatusCode, Message: msg}
	}

	var ok applyResponse
	if err := json.Unmarshal(raw, &ok); err != nil {
		return nil, &SubmissionError{Status: resp.StatusCode, Message: genericFailure}
	}
	return &Result{
		Status:  resp.StatusCode,
		Outcome: outcome.Label(ok.Outcome),
		Full:    ok.Full,
	}, nil
}

// Nest moves flat address fields into Address, the shape the intake UI sends.
// Fields already nested are kept.
func Nest(rec applicant.Record) applicant.Record {
	addr := applicant.Address{}
	if rec.Address != nil {
		addr = *rec.Address
	}
	pick := func(nested, flat *string) *string {
		if nested != nil {
			return nested
		}
		return flat
	}
	addr.Line1 = pick(addr.Line1, rec.Address1)
	addr.Line2 = pick(addr.Line2, rec.Address2)
	addr.City = pick(addr.City, rec.City)
	addr.State = pick(addr.State, rec.State)
	addr.Zip = pick(addr.Zip, rec.Zip)
	addr.Country = pick(addr.Country, rec.Country)

	out := rec
	out.Address = &addr
	out.Address1, out.Address2, out.City, out.State, out.Zip, out.Country = nil, nil, nil, nil, nil, nil
	return out
}
