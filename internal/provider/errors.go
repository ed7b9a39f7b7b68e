package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Category is the normalized failure taxonomy for provider calls.
type Category string

const (
	// CategoryTimeout: the provider did not answer within the fixed timeout.
	CategoryTimeout Category = "timeout"

	// CategoryNetwork: the request never produced a response (DNS, refused, reset).
	CategoryNetwork Category = "network"

	// CategoryAuthentication: the provider rejected our credentials (401/403).
	CategoryAuthentication Category = "authentication"

	// CategoryRateLimited: the provider throttled us (429).
	CategoryRateLimited Category = "rate_limited"

	// CategoryRejected: any other 4xx, usually a payload the provider refused.
	CategoryRejected Category = "rejected"

	// CategoryOutage: the provider failed with a 5xx.
	CategoryOutage Category = "provider_outage"

	// CategoryBadData: a response arrived but could not be read.
	CategoryBadData Category = "bad_data"

	// CategoryInternal: the failure did not come from the provider client.
	CategoryInternal Category = "internal"
)

// Error wraps a failed provider call. Body holds the provider's error body and
// must never be logged; Error() deliberately leaves it out.
type Error struct {
	Category   Category
	Status     int
	Body       []byte
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider [%s]: %s", e.Category, e.Message)
}

// Unwrap supports errors.Is / errors.As on the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Retryable reports whether a retry could plausibly succeed. The gateway never
// retries; this only feeds metrics.
func (e *Error) Retryable() bool {
	switch e.Category {
	case CategoryTimeout, CategoryNetwork, CategoryOutage, CategoryRateLimited:
		return true
	}
	return false
}

func newStatusError(status int, body []byte) *Error {
	return &Error{
		Category: categoryForStatus(status),
		Status:   status,
		Body:     body,
		Message:  fmt.Sprintf("Request failed with status code %d", status),
	}
}

func categoryForStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthentication
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status >= 500:
		return CategoryOutage
	default:
		return CategoryRejected
	}
}

// CategoryOf extracts the category from err, or CategoryInternal.
func CategoryOf(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryInternal
}

// StatusCode returns the provider's HTTP status for err, or 500 when no
// provider response exists.
func StatusCode(err error) int {
	var pe *Error
	if errors.As(err, &pe) && pe.Status != 0 {
		return pe.Status
	}
	return http.StatusInternalServerError
}

// Details returns what the caller may see about a failure: the provider's error
// body (decoded JSON when possible, otherwise the raw text) or, without a body,
// the error message.
func Details(err error) any {
	var pe *Error
	if !errors.As(err, &pe) {
		return err.Error()
	}
	if len(pe.Body) > 0 {
		if json.Valid(pe.Body) {
			return json.RawMessage(pe.Body)
		}
		return string(pe.Body)
	}
	if pe.Underlying != nil {
		return fmt.Sprintf("%s: %v", pe.Message, pe.Underlying)
	}
	return pe.Message
}

// HasBody reports whether err carries a provider error body.
func HasBody(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && len(pe.Body) > 0
}
