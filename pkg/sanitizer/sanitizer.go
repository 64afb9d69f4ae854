// Package sanitizer normalizes free-form user input before validation and
// storage. All functions are idempotent and never return errors; invalid
// input degrades to the empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeServiceType normalizes a booked-service label ("  Hotel " ->
// "hotel"). The label stays free-form; only casing and whitespace are
// canonicalized.
func SanitizeServiceType(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		trimAndLower,
	}
	return p.Apply(input)
}

// SanitizeDisplayName cleans a display name for use in notifications.
func SanitizeDisplayName(input string) string {
	return TrimAndNormalize(input)
}
