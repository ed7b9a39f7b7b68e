package audit

import "time"

// Actions recorded by the gateway.
const (
	ActionEvaluationSucceeded = "evaluation_succeeded"
	ActionEvaluationFailed    = "evaluation_failed"
)

// Event records one evaluation attempt. Applicant fields are masked before
// the event is built; sinks never see clear PII.
type Event struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	RequestID     string          `json:"request_id,omitempty"`
	Action        string          `json:"action"`
	SchemaVersion string          `json:"schema_version"`
	Outcome       string          `json:"outcome,omitempty"`
	Status        int             `json:"status"`
	ErrorCategory string          `json:"error_category,omitempty"`
	Applicant     MaskedApplicant `json:"applicant"`
	Client        *Client         `json:"client,omitempty"`
	Duration      time.Duration   `json:"duration_ns"`
}

// Client is the parsed user agent that submitted the application.
type Client struct {
	Browser  string `json:"browser"`
	Platform string `json:"platform"`
	OS       string `json:"os"`
	Mobile   bool   `json:"mobile"`
	Bot      bool   `json:"bot"`
}

// MaskedApplicant is the redacted applicant identity carried on events.
type MaskedApplicant struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	SSN       string `json:"ssn"`
}
