package utils

import "strings"

// SanitizeString trims surrounding whitespace from user supplied text.
func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// NormalizeEmail makes emails comparable: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
