package utils

import (
	"unicode"
	"unicode/utf8"
)

// CapitalizeSentence upper-cases the first letter of s, leaving the rest
// untouched.
func CapitalizeSentence(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
