package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/ratelimit"
)

// ForwardedProtoHeader carries the scheme terminated by an upstream proxy.
const ForwardedProtoHeader = "X-Forwarded-Proto"

// AdmissionConfig holds configuration for the admission gate.
type AdmissionConfig struct {
	Logger  *slog.Logger
	Limiter ratelimit.Limiter
	// RequireHTTPS enables the forwarded-proto check.
	RequireHTTPS bool
	// InsecureAllowedHosts are host prefixes exempt from the HTTPS
	// requirement (loopback and local aliases).
	InsecureAllowedHosts []string
}

// Admission returns a middleware that gates every request before
// credential resolution: first the rate limiter, then transport
// security. A failed check short-circuits without touching the
// database.
//
// Rate-limit buckets are keyed by the X-API-Key header value when
// present, otherwise by the client address. The forwarded-proto check
// runs only when the header is present; its absence means a direct
// connection and the check is skipped.
func Admission(cfg AdmissionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(auth.APIKeyHeader)
			if key == "" {
				key = clientIP(r)
			}

			if err := cfg.Limiter.Check(r.Context(), key); err != nil {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			if cfg.RequireHTTPS {
				proto := r.Header.Get(ForwardedProtoHeader)
				if proto != "" && proto != "https" && !hostAllowedInsecure(r.Host, cfg.InsecureAllowedHosts) {
					cfg.Logger.Warn("insecure transport rejected",
						slog.String("proto", proto),
						slog.String("host", r.Host),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusBadRequest, "HTTPS_REQUIRED", "HTTPS required")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// hostAllowedInsecure reports whether the host matches any allowed
// prefix. Prefix matching covers hosts carrying a port suffix.
func hostAllowedInsecure(host string, allowed []string) bool {
	for _, prefix := range allowed {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return false
}

// clientIP extracts the client IP from the request. Checks
// X-Forwarded-For and X-Real-IP for proxied requests.
func clientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// First entry is the originating client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
