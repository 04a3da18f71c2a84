package util

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxHostnameLen is the longest hostname a device accepts.
const MaxHostnameLen = 64

// Hostname validation failures. The text is shown to CLI users verbatim.
var (
	ErrHostnameEmpty   = errors.New("Hostname cannot be empty.")
	ErrHostnameTooLong = fmt.Errorf("Hostname too long (max %d characters).", MaxHostnameLen)
	ErrHostnameInvalid = errors.New("Invalid hostname. Use alphanumeric characters, hyphens, or underscores only.")
)

// ValidateHostname checks a device hostname: non-empty, at most 64 bytes,
// letters, digits, '-' and '_' only.
func ValidateHostname(name string) error {
	if name == "" {
		return ErrHostnameEmpty
	}
	if len(name) > MaxHostnameLen {
		return ErrHostnameTooLong
	}
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return ErrHostnameInvalid
		}
	}
	return nil
}

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// LastToken returns the final whitespace separated token of s.
func LastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// CapitalizeFirst returns s with the first letter uppercased.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
