package utils

import (
	"strings"
	"unicode"
)

// IsWordByte reports whether b is an ASCII word character ([0-9A-Za-z_]).
// This is the same class `\w` and `\b` use in the completion patterns.
func IsWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// StartsWithWordByte checks if the first byte of s is a word character
func StartsWithWordByte(s string) bool {
	return len(s) > 0 && IsWordByte(s[0])
}

// LeadingWordLen returns the length of the word character run at the start of s
func LeadingWordLen(s string) int {
	n := 0
	for n < len(s) && IsWordByte(s[n]) {
		n++
	}
	return n
}

// LeadingNonWordLen returns the length of the non-word run at the start of s
func LeadingNonWordLen(s string) int {
	n := 0
	for n < len(s) && !IsWordByte(s[n]) {
		n++
	}
	return n
}

// TrailingWordStart returns the index where the trailing run of word characters begins.
// For a string that does not end in a word character, it returns len(s).
func TrailingWordStart(s string) int {
	i := len(s)
	for i > 0 && IsWordByte(s[i-1]) {
		i--
	}
	return i
}

// TrimRightSpace strips trailing unicode whitespace
func TrimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// IsValidInput checks if a prefix should be processed for completions.
// Empty input or input that contains line breaks is rejected.
func IsValidInput(s string) bool {
	if len(s) == 0 {
		return false
	}
	return !strings.ContainsAny(s, "\r\n")
}
