package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		isDev       bool
		checkHeader string
		wantPresent bool
		wantValue   string
	}{
		{name: "nosniff", checkHeader: "X-Content-Type-Options", wantPresent: true, wantValue: "nosniff"},
		{name: "frame options", checkHeader: "X-Frame-Options", wantPresent: true, wantValue: "DENY"},
		{name: "referrer policy", checkHeader: "Referrer-Policy", wantPresent: true, wantValue: "strict-origin-when-cross-origin"},
		{name: "csp", checkHeader: "Content-Security-Policy", wantPresent: true, wantValue: "default-src 'none'; frame-ancestors 'none'"},
		{name: "cache control", checkHeader: "Cache-Control", wantPresent: true, wantValue: "no-store"},
		{name: "hsts in production", checkHeader: "Strict-Transport-Security", wantPresent: true, wantValue: "max-age=31536000; includeSubDomains"},
		{name: "no hsts in development", isDev: true, checkHeader: "Strict-Transport-Security", wantPresent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := Security(SecurityConfig{IsDevelopment: tt.isDev})(okHandler())

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			got := rec.Header().Get(tt.checkHeader)
			if tt.wantPresent && got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.checkHeader, got, tt.wantValue)
			}
			if !tt.wantPresent && got != "" {
				t.Errorf("%s = %q, want unset", tt.checkHeader, got)
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	h := MaxBodySize(16)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
