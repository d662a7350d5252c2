package models

import (
	"encoding/json"
	"strings"
)

// ParseTags normalizes a loosely-typed tag value into a slice of trimmed,
// non-empty strings. The legacy data stored these fields inconsistently: a
// bare string ("cinema"), a comma-separated list ("calcio, cinema"), a JSON
// string ("\"cinema\"") or a JSON array (["calcio","cinema"]). Parsing is
// total: any input yields a (possibly empty) slice, never an error.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return cleanTags(arr)
		}
		// Malformed array; fall through to the plain-string path.
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return cleanTags([]string{s})
		}
	}

	return cleanTags(strings.Split(raw, ","))
}

// NormalizeTag lowercases and trims a single tag for comparison.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
