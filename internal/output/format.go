// Package output prepares arbitrary text for a message-length-constrained chat.
package output

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxChars is the largest body Format returns before the truncation marker.
	MaxChars = 3500

	// Placeholder replaces empty or whitespace-only text.
	Placeholder = "(no output)"

	// TruncatedMarker is appended when the body was cut at MaxChars.
	TruncatedMarker = "\n...(truncated)"
)

// Format trims text, substitutes Placeholder for empty input and cuts
// anything longer than MaxChars characters, appending TruncatedMarker.
// Lengths are counted in runes so multi-byte text is never split mid-character.
func Format(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Placeholder
	}
	if utf8.RuneCountInString(text) <= MaxChars {
		return text
	}
	return string([]rune(text)[:MaxChars]) + TruncatedMarker
}
