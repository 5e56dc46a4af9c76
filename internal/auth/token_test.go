package auth

import (
	"strings"
	"testing"
)

func TestNewSessionToken(t *testing.T) {
	token := NewSessionToken()

	if !strings.HasPrefix(token, tokenPrefix) {
		t.Errorf("token = %q, want prefix %q", token, tokenPrefix)
	}
	if len(token) != len(tokenPrefix)+26 {
		t.Errorf("len(token) = %d, want %d", len(token), len(tokenPrefix)+26)
	}
	if !ValidTokenFormat(token) {
		t.Errorf("generated token %q does not pass its own format check", token)
	}
}

func TestNewSessionTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewSessionToken()
		if seen[token] {
			t.Fatalf("duplicate token generated: %q", token)
		}
		seen[token] = true
	}
}

func TestValidTokenFormat(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "valid token",
			token: "st_01HV9K7W3MZXQ4T8R2B6DYFGAC",
			want:  true,
		},
		{
			name:  "empty string",
			token: "",
			want:  false,
		},
		{
			name:  "missing prefix",
			token: "01HV9K7W3MZXQ4T8R2B6DYFGAC",
			want:  false,
		},
		{
			name:  "wrong prefix",
			token: "tk_01HV9K7W3MZXQ4T8R2B6DYFGAC",
			want:  false,
		},
		{
			name:  "body too short",
			token: "st_01HV9K7W3MZXQ4T8R2B6DYFGA",
			want:  false,
		},
		{
			name:  "body too long",
			token: "st_01HV9K7W3MZXQ4T8R2B6DYFGACX",
			want:  false,
		},
		{
			name:  "lowercase body",
			token: "st_01hv9k7w3mzxq4t8r2b6dyfgac",
			want:  false,
		},
		{
			name:  "excluded base32 characters",
			token: "st_01ILOU7W3MZXQ4T8R2B6DYFGAC",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTokenFormat(tt.token); got != tt.want {
				t.Errorf("ValidTokenFormat(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
