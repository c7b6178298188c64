package auth

import (
	"regexp"
	"strings"
)

// Permissive local@domain.tld shape; rejects embedded whitespace. Syntax
// check only, not deliverability.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases. The result is the sole identity key
// for account lookups, so two emails differing only in case or surrounding
// whitespace are the same account.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidEmail reports whether value, once normalized, looks like an email
// address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(NormalizeEmail(value))
}
