package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finledger/finledger/internal/auth"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver *auth.Resolver
}

// Auth returns a middleware that authenticates requests. It accepts a
// bearer session token or an API key, resolves it to a user through the
// credential resolver, and injects the principal into the request
// context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := auth.CredentialsFromRequest(r)

			user, err := cfg.Resolver.Resolve(r.Context(), creds)
			if err != nil {
				reason, message := classifyAuthError(err)

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				if reason == "internal" {
					writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
					return
				}
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// classifyAuthError maps resolver errors to a log reason and the
// client-facing message. Unknown errors are internal.
func classifyAuthError(err error) (reason, message string) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "missing_credentials", "Missing credentials"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token", "Invalid token"
	case errors.Is(err, auth.ErrMalformedKey):
		return "invalid_key_format", "Invalid API key format"
	case errors.Is(err, auth.ErrInvalidKey):
		return "invalid_key", "Invalid API key"
	case errors.Is(err, auth.ErrUserNotFound):
		return "user_not_found", "User not found"
	default:
		return "internal", ""
	}
}
