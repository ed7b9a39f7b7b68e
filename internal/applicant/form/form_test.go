package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/internal/applicant"
	"applygate/internal/applicant/validation"
	"applygate/pkg/platform/privacy"
	"applygate/pkg/testutil"
)

func newTestForm(t *testing.T) (*Form, *testutil.SyncBuffer) {
	t.Helper()
	logger, buf := testutil.NewCaptureLogger()
	v := validation.New(validation.WithClock(func() time.Time {
		return time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	}))
	return New(v, logger, privacy.DefaultMasker()), buf
}

func fill(f *Form) {
	f.Set(applicant.FieldFirstName, "Jane")
	f.Set(applicant.FieldLastName, "Approve")
	f.Set(applicant.FieldEmail, "jane@x.com")
	f.Set(applicant.FieldPhone, "5551234567")
	f.Set(applicant.FieldBirthDate, "1990-01-01")
	f.Set(applicant.FieldSSN, "123456789")
	f.Set(applicant.FieldAddress1, "1 Main St")
	f.Set(applicant.FieldCity, "Springfield")
	f.Set(applicant.FieldState, "il")
	f.Set(applicant.FieldZip, "62704")
}

func TestNewFormPresetsCountry(t *testing.T) {
	f, _ := newTestForm(t)
	assert.Equal(t, "US", f.Value(applicant.FieldCountry))
	assert.Empty(t, f.Errors())
}

func TestSetUppercasesState(t *testing.T) {
	f, _ := newTestForm(t)
	f.Set(applicant.FieldState, "ny")
	assert.Equal(t, "NY", f.Value(applicant.FieldState))
}

func TestErrorsOnlyShowAfterTouch(t *testing.T) {
	f, _ := newTestForm(t)
	f.Set(applicant.FieldSSN, "123")
	assert.Empty(t, f.VisibleError(applicant.FieldSSN), "untouched field hides its error")

	f.Blur(applicant.FieldSSN)
	assert.Equal(t, "SSN must be 9 digits", f.VisibleError(applicant.FieldSSN))

	f.Set(applicant.FieldSSN, "123456789")
	assert.Empty(t, f.VisibleError(applicant.FieldSSN), "touched field re-validates while typing")
}

type submitAttempt struct {
	form *Form
	logs *testutil.SyncBuffer
	sent []applicant.Record
	err  error
}

func formFilledWith(edit func(f *Form)) func(t *testing.T) *submitAttempt {
	return func(t *testing.T) *submitAttempt {
		f, buf := newTestForm(t)
		edit(f)
		return &submitAttempt{form: f, logs: buf}
	}
}

func submitForm(t *testing.T, a *submitAttempt) {
	a.err = a.form.Submit(context.Background(), func(_ context.Context, rec applicant.Record) error {
		a.sent = append(a.sent, rec)
		return nil
	})
}

func TestSubmit(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		testutil.Given(t, "a complete valid form", formFilledWith(fill)).
			When("submitted", submitForm).
			Then("the record is sent once with flat fields", func(t *testing.T, a *submitAttempt) {
				require.NoError(t, a.err)
				require.Len(t, a.sent, 1)
				got := a.sent[0]
				assert.Equal(t, "Jane", applicant.Value(got.FirstName))
				assert.Equal(t, "IL", applicant.Value(got.State))
				assert.Equal(t, "US", applicant.Value(got.Country))
			})
	})

	t.Run("degenerate SSN", func(t *testing.T) {
		testutil.Given(t, "a degenerate SSN", formFilledWith(func(f *Form) {
			fill(f)
			f.Set(applicant.FieldSSN, "000000000")
		})).
			When("submitted", submitForm).
			Then("submission is blocked without calling submit", func(t *testing.T, a *submitAttempt) {
				assert.ErrorIs(t, a.err, ErrSubmissionBlocked)
				assert.Empty(t, a.sent)
				assert.Equal(t, "SSN is not valid", a.form.VisibleError(applicant.FieldSSN))
			}).
			Then("the log masks the SSN", func(t *testing.T, a *submitAttempt) {
				out := a.logs.String()
				assert.Contains(t, out, "submission blocked by validation")
				assert.NotContains(t, out, "000000000")
				assert.Contains(t, out, "*********")
			})
	})

	t.Run("empty form", func(t *testing.T) {
		testutil.Given(t, "an empty form", formFilledWith(func(*Form) {})).
			When("submitted", submitForm).
			Then("every required field is touched and reports an error", func(t *testing.T, a *submitAttempt) {
				assert.ErrorIs(t, a.err, ErrSubmissionBlocked)
				for _, name := range applicant.RequiredFields {
					if name == applicant.FieldCountry {
						continue
					}
					assert.True(t, a.form.Touched(name), name)
					assert.NotEmpty(t, a.form.VisibleError(name), name)
				}
				assert.Empty(t, a.form.VisibleError(applicant.FieldAddress2))
			})
	})
}

func TestResetClearsState(t *testing.T) {
	f, _ := newTestForm(t)
	fill(f)
	f.Blur(applicant.FieldFirstName)
	f.Reset()

	assert.Empty(t, f.Value(applicant.FieldFirstName))
	assert.False(t, f.Touched(applicant.FieldFirstName))
	assert.Equal(t, "US", f.Value(applicant.FieldCountry))
}
