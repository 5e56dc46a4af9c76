package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/session"
)

// SessionValidator resolves a session token to an identity.
// Satisfied by *session.Store; tests substitute a fake.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.Identity, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Sessions SessionValidator
}

// Auth returns a middleware that authorizes requests by session token.
// The token is validated against the session store on every request; the
// resolved identity and the raw token are injected into the context for
// downstream handlers. Validity is never cached beyond the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				cfg.Logger.Warn("authorization failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			identity, err := cfg.Sessions.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrStoreUnavailable) {
					cfg.Logger.Error("session store unavailable",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeStoreUnavailable(w)
					return
				}

				cfg.Logger.Warn("authorization failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			ctx = auth.ContextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionToken reads the token from the Authorization header.
// Only "Bearer <token>" is accepted; the transport mechanism for the opaque
// token is a deliberate adapter concern.
func extractSessionToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Missing or invalid session token","code":"UNAUTHENTICATED"}`))
}

// writeStoreUnavailable writes a 503 response for transient backend outages.
func writeStoreUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"error":"Session store unavailable, retry shortly","code":"STORE_UNAVAILABLE"}`))
}
