package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsLetter reports whether s has at least one Latin or Cyrillic letter.
func ContainsLetter(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.In(r, unicode.Latin, unicode.Cyrillic) {
			return true
		}
	}
	return false
}

// IsDigits reports whether s is non-empty and made only of digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Len returns the length of s in runes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Hash computes a SHA-256 hex hash of a string for deduplication.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// HashParts hashes several strings joined with a NUL separator.
func HashParts(parts ...string) string {
	return Hash(strings.Join(parts, "\x00"))
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen]) + "..."
}

// Stats counts words, characters and lines of a loaded file.
type Stats struct {
	Words int
	Chars int
	Lines int
}

// CountStats computes Stats for content split on "\n".
func CountStats(content string) Stats {
	return Stats{
		Words: len(strings.Fields(content)),
		Chars: utf8.RuneCountInString(content),
		Lines: len(strings.Split(content, "\n")),
	}
}
