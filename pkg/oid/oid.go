package oid

import (
	"strings"
)

// MaxLength is the longest accepted object id.
const MaxLength = 32

// Normalize trims s and returns it when it is 1 to MaxLength ASCII letters
// or digits. Returns an empty string otherwise.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > MaxLength {
		return ""
	}
	for _, c := range s {
		if !isAlnum(c) {
			return ""
		}
	}
	return s
}

func isAlnum(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
