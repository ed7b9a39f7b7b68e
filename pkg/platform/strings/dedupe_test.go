package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"empty", nil, []string{}},
		{"trims and keeps order", []string{" b ", "a"}, []string{"b", "a"}},
		{"drops blanks", []string{"", "  ", "a"}, []string{"a"}},
		{"first occurrence wins", []string{"a", "b", " a"}, []string{"a", "b"}},
		{"case sensitive", []string{"A", "a"}, []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.values))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t,
		[]string{"https://a.example", "http://localhost:3000"},
		SplitList("https://a.example, http://localhost:3000,,https://a.example"),
	)
}
