package common

import (
	"strings"
	"unicode/utf8"
)

// Sanitize normalizes raw user-supplied text before it enters the pipelines:
// invalid UTF-8 sequences are dropped, carriage returns are normalized to
// plain newlines, NUL and other non-printing control characters are removed
// (tabs and newlines survive), and surrounding whitespace is trimmed.
func Sanitize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Truncate cuts text to at most max bytes without splitting a UTF-8 rune.
// A non-positive max means no limit.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := text[:max]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
