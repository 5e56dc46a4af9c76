package auth

import "strings"

// NormalizeEmail canonicalizes an email address: trimmed and lowercased.
// Registration and authentication both apply it before any store lookup, so
// the stored form and the login form always agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
