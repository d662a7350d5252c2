package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Empty", "", nil},
		{"Whitespace only", "   ", nil},
		{"Bare string", "cinema", []string{"cinema"}},
		{"Comma separated", "calcio, cinema ,lettura", []string{"calcio", "cinema", "lettura"}},
		{"Trailing comma", "calcio,", []string{"calcio"}},
		{"JSON array", `["calcio","cinema"]`, []string{"calcio", "cinema"}},
		{"JSON array with blanks", `["calcio","","  "]`, []string{"calcio"}},
		{"JSON string", `"cinema"`, []string{"cinema"}},
		{"Empty JSON array", `[]`, nil},
		{"Malformed JSON array falls back to plain text", `[calcio, cinema`, []string{"[calcio", "cinema"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestParseTagsIsTotal(t *testing.T) {
	// Whatever the legacy rows contain, parsing must not panic.
	for _, raw := range []string{"{", "[{]}", "\x00\x01", `{"a":1}`, `[1,2,3]`} {
		assert.NotPanics(t, func() { _ = ParseTags(raw) })
	}
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "cinema", NormalizeTag("  CINEMA "))
}
