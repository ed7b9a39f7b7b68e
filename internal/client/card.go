package client

import (
	"errors"
	"fmt"
	"io"

	"applygate/internal/outcome"
)

// Tone classifies a card for styling.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
	ToneNeutral Tone = "neutral"
)

// Card is what the applicant sees after submitting.
type Card struct {
	Icon    string
	Title   string
	Message string
	Tone    Tone
}

// CardFor picks the card for an outcome. Any label outside the canonical set,
// including pass-through provider strings, gets the unknown-outcome card.
func CardFor(label outcome.Label) Card {
	switch label {
	case outcome.Approved:
		return Card{Icon: "✅", Title: "Application Approved!", Message: "Success! Customer has successfully created an account", Tone: ToneSuccess}
	case outcome.ManualReview:
		return Card{Icon: "🔍", Title: "Under Review", Message: "Thanks for submitting your application, we'll be in touch shortly", Tone: ToneWarning}
	case outcome.Deny:
		return Card{Icon: "❌", Title: "Application Not Approved", Message: "Sorry, your application was not successful", Tone: ToneError}
	default:
		return Card{Icon: "❓", Title: "Unknown Outcome", Message: "The application status could not be determined", Tone: ToneNeutral}
	}
}

// FailureCard renders a failed submission. Gateway errors show the gateway's
// generic message; unreachable gateways get a connection message.
func FailureCard(err error) Card {
	msg := genericFailure
	var se *SubmissionError
	switch {
	case errors.As(err, &se):
		msg = se.Message
	case errors.Is(err, ErrUnreachable):
		msg = unreachableMessage
	}
	return Card{Icon: "⚠️", Title: "Error", Message: msg, Tone: ToneError}
}

// Render writes card as plain text.
func Render(w io.Writer, card Card) error {
	_, err := fmt.Fprintf(w, "%s %s\n%s\n", card.Icon, card.Title, card.Message)
	return err
}
