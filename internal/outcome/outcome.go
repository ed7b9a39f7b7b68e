// Package outcome normalizes provider decision strings into the labels the
// intake UI understands.
package outcome

import (
	"encoding/json"
	"strings"
)

// Label is a normalized outcome. Besides the canonical values it may carry an
// unrecognized provider string verbatim.
type Label string

const (
	Approved     Label = "Approved"
	Deny         Label = "Deny"
	ManualReview Label = "Manual Review"
	Unknown      Label = "Unknown"
)

func (l Label) String() string {
	return string(l)
}

// IsCanonical reports whether l is one of the three UI-recognized outcomes.
func (l Label) IsCanonical() bool {
	switch l {
	case Approved, Deny, ManualReview:
		return true
	}
	return false
}

// Normalize maps a provider outcome case-insensitively onto a canonical label.
// An empty input yields Unknown. Unrecognized strings pass through unchanged so
// new provider outcomes are not masked.
func Normalize(raw string) Label {
	if raw == "" {
		return Unknown
	}
	switch strings.ToLower(raw) {
	case "approved":
		return Approved
	case "denied", "deny":
		return Deny
	case "manual review", "manual_review":
		return ManualReview
	default:
		return Label(raw)
	}
}

// Summary is the part of a provider evaluation response the gateway reads.
type Summary struct {
	Outcome string
	Score   any
	Tags    []string
}

type envelope struct {
	Summary map[string]json.RawMessage `json:"summary"`
}

// ParseSummary extracts summary.outcome, score and tags from a raw provider
// response. Each field is decoded on its own, so a malformed score or tag list
// never hides the outcome. Missing or malformed pieces come back as zero values.
func ParseSummary(body []byte) Summary {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Summary == nil {
		return Summary{}
	}

	var s Summary
	if raw, ok := env.Summary["outcome"]; ok {
		_ = json.Unmarshal(raw, &s.Outcome)
	}
	if raw, ok := env.Summary["score"]; ok {
		_ = json.Unmarshal(raw, &s.Score)
	}
	if raw, ok := env.Summary["tags"]; ok {
		s.Tags = parseTags(raw)
	}
	return s
}

// parseTags keeps the string entries of a tag list. A bare string is treated
// as a single tag; any other shape yields nil.
func parseTags(raw json.RawMessage) []string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var tags []string
		for _, item := range v {
			if tag, ok := item.(string); ok {
				tags = append(tags, tag)
			}
		}
		return tags
	}
	return nil
}

// FromResponse normalizes the outcome carried by a raw provider response.
func FromResponse(body []byte) Label {
	return Normalize(ParseSummary(body).Outcome)
}
