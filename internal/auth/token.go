package auth

import (
	"regexp"

	"github.com/oklog/ulid/v2"
)

// Session token format: st_<26-char ULID>.
// Example: st_01HV9K7W3MZXQ4T8R2B6DYFGAC
const tokenPrefix = "st_"

// tokenRegex validates the token format (Crockford base32 ULID body).
var tokenRegex = regexp.MustCompile(`^st_[0-9A-HJKMNP-TV-Z]{26}$`)

// NewSessionToken generates an opaque session token.
// The ULID body carries enough entropy that tokens are unguessable.
func NewSessionToken() string {
	return tokenPrefix + ulid.Make().String()
}

// ValidTokenFormat checks whether the token matches the expected shape.
// A format check before any store lookup rejects garbage cheaply.
func ValidTokenFormat(token string) bool {
	return tokenRegex.MatchString(token)
}
