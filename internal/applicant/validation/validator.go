// Package validation implements the per-field rules the intake form applies
// before anything is sent to the gateway. Every rule is pure: a field name and
// its raw value map to an error message, or "" when the value is acceptable.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"applygate/internal/applicant"
)

const dateLayout = "2006-01-02"

var (
	birthDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	ssnSeparators   = strings.NewReplacer("-", "", " ", "", "\t", "")
	phoneSeparators = strings.NewReplacer("-", "", " ", "", "\t", "", ".", "", "(", "", ")", "")

	// Placeholder numbers that are never issued.
	degenerateSSNs = map[string]struct{}{
		"000000000": {},
		"111111111": {},
	}
)

// rule is a validator tag chain plus the message shown for each failing tag.
type rule struct {
	normalize func(string) string
	tags      string
	messages  map[string]string
	fallback  string
}

func requiredText(label string) rule {
	return rule{
		normalize: strings.TrimSpace,
		tags:      "required",
		messages:  map[string]string{"required": label + " is required"},
	}
}

var rules = map[string]rule{
	applicant.FieldFirstName: requiredText("First name"),
	applicant.FieldLastName:  requiredText("Last name"),
	applicant.FieldAddress1:  requiredText("Address"),
	applicant.FieldCity:      requiredText("City"),
	applicant.FieldZip:       requiredText("ZIP code"),
	applicant.FieldEmail:     requiredText("Email"),
	applicant.FieldSSN: {
		normalize: NormalizeSSN,
		tags:      "required,len=9,number,issued_ssn",
		messages: map[string]string{
			"required":   "SSN is required",
			"issued_ssn": "SSN is not valid",
		},
		fallback: "SSN must be 9 digits",
	},
	applicant.FieldPhone: {
		normalize: NormalizePhone,
		tags:      "required,len=10,number",
		messages:  map[string]string{"required": "Phone number is required"},
		fallback:  "Phone must be 10 digits",
	},
	applicant.FieldState: {
		tags:     "required,len=2,alpha,uppercase",
		messages: map[string]string{"required": "State is required"},
		fallback: "State must be 2 letters (e.g. NY, CA)",
	},
	applicant.FieldCountry: {
		tags:     "eq=" + applicant.DefaultCountry,
		fallback: "Country must be US",
	},
	applicant.FieldBirthDate: {
		tags: "required,date_shape,datetime=" + dateLayout + ",past_date,min_year=1900,min_age=13",
		messages: map[string]string{
			"required":   "Date of birth is required",
			"date_shape": "Date must be YYYY-MM-DD format",
			"datetime":   "Invalid date",
			"past_date":  "Birth date must be in the past",
			"min_year":   "Invalid birth year",
			"min_age":    "Applicant must be at least 13 years old",
		},
		fallback: "Invalid date",
	},
}

// Validator applies field rules against an injectable clock.
type Validator struct {
	now      func() time.Time
	validate *validator.Validate
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the time source used for birth-date checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New builds a Validator using the wall clock unless overridden.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now, validate: validator.New()}
	for _, opt := range opts {
		opt(v)
	}
	v.register()
	return v
}

func (v *Validator) register() {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	mustRegister("issued_ssn", func(fl validator.FieldLevel) bool {
		_, placeholder := degenerateSSNs[fl.Field().String()]
		return !placeholder
	})
	mustRegister("date_shape", func(fl validator.FieldLevel) bool {
		return birthDateShape.MatchString(fl.Field().String())
	})
	mustRegister("past_date", func(fl validator.FieldLevel) bool {
		born, ok := parseDate(fl)
		return ok && born.Before(v.today())
	})
	mustRegister("min_year", func(fl validator.FieldLevel) bool {
		born, ok := parseDate(fl)
		minYear, err := strconv.Atoi(fl.Param())
		return ok && err == nil && born.Year() >= minYear
	})
	mustRegister("min_age", func(fl validator.FieldLevel) bool {
		born, ok := parseDate(fl)
		years, err := strconv.Atoi(fl.Param())
		return ok && err == nil && !born.AddDate(years, 0, 0).After(v.today())
	})
}

func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(fl validator.FieldLevel) (time.Time, bool) {
	t, err := time.Parse(dateLayout, fl.Field().String())
	return t, err == nil
}

// ValidateField returns the error message for value, or "" if it is valid.
// Fields without rules are always valid.
func (v *Validator) ValidateField(name, value string) string {
	r, ok := rules[name]
	if !ok {
		return ""
	}
	if isBlank(value) {
		if msg, ok := r.messages["required"]; ok {
			return msg
		}
	}
	if r.normalize != nil {
		value = r.normalize(value)
	}

	err := v.validate.Var(value, r.tags)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := r.messages[fieldErrs[0].Tag()]; ok {
			return msg
		}
	}
	return r.fallback
}

// ValidateAll validates every field in values plus any required field missing
// from it, returning only the fields that failed.
func (v *Validator) ValidateAll(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for name, value := range values {
		if msg := v.ValidateField(name, value); msg != "" {
			errs[name] = msg
		}
	}
	for _, name := range applicant.RequiredFields {
		if _, ok := values[name]; ok {
			continue
		}
		if msg := v.ValidateField(name, ""); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// IsFormValid reports whether every required field is non-blank and passes its rule.
func (v *Validator) IsFormValid(values map[string]string) bool {
	for _, name := range applicant.RequiredFields {
		value := values[name]
		if isBlank(value) {
			return false
		}
		if v.ValidateField(name, value) != "" {
			return false
		}
	}
	return true
}

// NormalizeSSN strips hyphens and whitespace from an SSN.
func NormalizeSSN(value string) string {
	return ssnSeparators.Replace(strings.TrimSpace(value))
}

// NormalizePhone strips common separators from a phone number.
func NormalizePhone(value string) string {
	return phoneSeparators.Replace(strings.TrimSpace(value))
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
