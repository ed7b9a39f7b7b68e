// Package form tracks the state of the intake form: current values, which
// fields the user has visited, and the error shown for each. Submission is
// gated on the validator so invalid applications never leave the client.
package form

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"applygate/internal/applicant"
	"applygate/internal/applicant/validation"
	"applygate/pkg/platform/privacy"
)

// ErrSubmissionBlocked is returned by Submit when the form is not valid.
var ErrSubmissionBlocked = errors.New("submission blocked by validation errors")

// SubmitFunc sends a validated record.
type SubmitFunc func(ctx context.Context, record applicant.Record) error

// Form holds values, touched flags, and per-field errors.
type Form struct {
	validator *validation.Validator
	logger    *slog.Logger
	masker    privacy.Masker

	values  map[string]string
	touched map[string]bool
	errors  map[string]string
}

// New returns an empty form with the country preset.
func New(validator *validation.Validator, logger *slog.Logger, masker privacy.Masker) *Form {
	f := &Form{
		validator: validator,
		logger:    logger,
		masker:    masker,
	}
	f.Reset()
	return f
}

// Reset restores the initial values and clears touched flags and errors.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(applicant.FormFields))
	for _, name := range applicant.FormFields {
		f.values[name] = ""
	}
	f.values[applicant.FieldCountry] = applicant.DefaultCountry
	f.touched = make(map[string]bool)
	f.errors = make(map[string]string)
}

// Set records user input. State is uppercased; touched fields are re-validated
// immediately so a fixed error clears while typing.
func (f *Form) Set(name, value string) {
	if name == applicant.FieldState {
		value = strings.ToUpper(value)
	}
	f.values[name] = value
	if f.touched[name] {
		f.errors[name] = f.validator.ValidateField(name, value)
	}
}

// Blur marks a field as visited and validates it.
func (f *Form) Blur(name string) {
	f.touched[name] = true
	f.errors[name] = f.validator.ValidateField(name, f.values[name])
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// Touched reports whether the field has been visited.
func (f *Form) Touched(name string) bool {
	return f.touched[name]
}

// VisibleError returns the error to display for a field: only touched fields
// show errors.
func (f *Form) VisibleError(name string) string {
	if !f.touched[name] {
		return ""
	}
	return f.errors[name]
}

// Errors returns a copy of the non-empty errors for touched fields.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string)
	for name, msg := range f.errors {
		if msg != "" && f.touched[name] {
			out[name] = msg
		}
	}
	return out
}

// Valid reports form-level validity.
func (f *Form) Valid() bool {
	return f.validator.IsFormValid(f.values)
}

// Record builds the flat applicant record from the current values.
func (f *Form) Record() applicant.Record {
	return applicant.FromFields(f.values)
}

// Submit marks every field touched, re-validates all of them so every error
// surfaces at once, and calls submit only if the whole form is valid.
func (f *Form) Submit(ctx context.Context, submit SubmitFunc) error {
	for name, value := range f.values {
		f.touched[name] = true
		f.errors[name] = f.validator.ValidateField(name, value)
	}

	if !f.Valid() {
		f.logBlocked(ctx)
		return ErrSubmissionBlocked
	}
	return submit(ctx, f.Record())
}

func (f *Form) logBlocked(ctx context.Context) {
	if f.logger == nil {
		return
	}
	failed := make([]string, 0, len(f.errors))
	for name, msg := range f.errors {
		if msg != "" {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	f.logger.InfoContext(ctx, "submission blocked by validation",
		"fields", failed,
		"email", f.masker.Email(f.values[applicant.FieldEmail]),
		"ssn", f.masker.SSN(f.values[applicant.FieldSSN]),
	)
}
