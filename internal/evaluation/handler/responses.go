package handler

import (
	"encoding/json"

	"applygate/internal/evaluation"
)

// ApplyResponse is the HTTP response for a successful POST /apply.
type ApplyResponse struct {
	Outcome string          `json:"outcome"`
	Full    json.RawMessage `json:"full"`
}

// FromResult converts an evaluation result to an HTTP response.
func FromResult(result *evaluation.Result) *ApplyResponse {
	full := result.Full
	if len(full) == 0 {
		full = json.RawMessage("null")
	}
	return &ApplyResponse{
		Outcome: result.Outcome.String(),
		Full:    full,
	}
}
