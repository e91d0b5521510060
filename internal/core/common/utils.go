package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanText collapses every whitespace run, newlines included, into a single space and trims
// the result. Punctuation and casing are left alone for the NLP engine's tokenizer.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsBlank reports whether text holds nothing but whitespace.
func IsBlank(text string) bool {
	return strings.TrimFunc(text, unicode.IsSpace) == ""
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// IndexFold returns the byte index of the first case-insensitive occurrence of substr in s, or
// -1. Offsets stay valid for s even when lowering would change its byte length.
func IndexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// ContainsFold reports whether substr occurs in s ignoring case.
func ContainsFold(s, substr string) bool {
	return IndexFold(s, substr) >= 0
}

// Abs is integer absolute value.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
