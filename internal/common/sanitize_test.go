package common

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trims surrounding whitespace",
			input:    "  hello world  \n",
			expected: "hello world",
		},
		{
			name:     "normalizes CRLF line endings",
			input:    "line one\r\nline two\rline three",
			expected: "line one\nline two\nline three",
		},
		{
			name:     "drops NUL and control characters",
			input:    "hel\x00lo\x07 world",
			expected: "hello world",
		},
		{
			name:     "keeps tabs and newlines",
			input:    "col1\tcol2\nrow2",
			expected: "col1\tcol2\nrow2",
		},
		{
			name:     "drops invalid UTF-8 bytes",
			input:    "caf\xffe",
			expected: "cafe",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("under limit unchanged", func(t *testing.T) {
		if got := Truncate("short", 100); got != "short" {
			t.Errorf("expected unchanged text, got %q", got)
		}
	})

	t.Run("cuts to limit", func(t *testing.T) {
		got := Truncate(strings.Repeat("a", 50), 10)
		if len(got) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(got))
		}
	})

	t.Run("never splits a rune", func(t *testing.T) {
		got := Truncate("héllo wörld", 2)
		if !utf8.ValidString(got) {
			t.Errorf("truncated text is not valid UTF-8: %q", got)
		}
		if len(got) > 2 {
			t.Errorf("expected at most 2 bytes, got %d", len(got))
		}
	})

	t.Run("non-positive max means no limit", func(t *testing.T) {
		if got := Truncate("anything", 0); got != "anything" {
			t.Errorf("expected unchanged text, got %q", got)
		}
	})
}
