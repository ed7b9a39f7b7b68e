// Package privacy holds the redaction helpers shared by every code path that
// writes applicant data to logs or audit sinks.
package privacy

import "strings"

// MaskChar replaces every hidden character.
const MaskChar = '*'

// Mask reveals the first visible runes of value and replaces the rest with
// MaskChar. Values no longer than visible are masked entirely; negative visible
// counts are treated as zero.
func Mask(value string, visible int) string {
	if value == "" {
		return ""
	}
	if visible < 0 {
		visible = 0
	}
	runes := []rune(value)
	if len(runes) <= visible {
		return strings.Repeat(string(MaskChar), len(runes))
	}
	return string(runes[:visible]) + strings.Repeat(string(MaskChar), len(runes)-visible)
}

// Masker applies the configured prefix lengths to the applicant fields that
// may appear in logs.
type Masker struct {
	EmailVisible int
	SSNVisible   int
}

// DefaultMasker reveals three leading email characters and no SSN digits.
func DefaultMasker() Masker {
	return Masker{EmailVisible: 3, SSNVisible: 0}
}

// Email masks an email address.
func (m Masker) Email(email string) string {
	return Mask(email, m.EmailVisible)
}

// SSN masks a social security number.
func (m Masker) SSN(ssn string) string {
	return Mask(ssn, m.SSNVisible)
}
