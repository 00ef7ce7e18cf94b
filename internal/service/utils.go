package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 drops invalid UTF-8 sequences so PostgreSQL accepts the text.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

// validateName rejects blank taxonomy names. The name is stored as supplied so lookups by name match it.
func validateName(name string) (string, error) {
	name = sanitizeUTF8(name)
	if strings.TrimSpace(name) == "" {
		return "", invalid("name must not be empty")
	}
	return name, nil
}
