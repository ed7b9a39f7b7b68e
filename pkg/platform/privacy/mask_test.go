package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		visible int
		want    string
	}{
		{"empty stays empty", "", 3, ""},
		{"prefix revealed", "jane@x.com", 3, "jan*******"},
		{"nothing revealed", "123-45-6789", 0, "***********"},
		{"short value fully masked", "ab", 2, "**"},
		{"negative visible treated as zero", "abc", -1, "***"},
		{"multibyte runes counted once", "élan", 1, "é***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.value, tt.visible))
		})
	}
}

func TestMaskerDefaults(t *testing.T) {
	m := DefaultMasker()
	assert.Equal(t, "jan*******", m.Email("jane@x.com"))
	assert.Equal(t, "*********", m.SSN("123456789"))
}
