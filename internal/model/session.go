package model

import "time"

// Session is issued on successful authentication. The token is opaque to
// callers; it stays valid until logout or until ExpiresAt passes.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the user and tenant bound to a validated session token.
// It is resolved per request and never cached across requests.
type Identity struct {
	UserID   string
	TenantID string
	Email    string
}
