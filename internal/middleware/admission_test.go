package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finledger/finledger/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdmissionRateLimit(t *testing.T) {
	t.Parallel()

	cfg := AdmissionConfig{
		Logger:  discardLogger(),
		Limiter: ratelimit.NewMemory(2, time.Minute),
	}
	h := Admission(cfg)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rate limit exceeded") {
		t.Errorf("body = %q, want rate limit message", rec.Body.String())
	}
}

func TestAdmissionBucketsByAPIKey(t *testing.T) {
	t.Parallel()

	cfg := AdmissionConfig{
		Logger:  discardLogger(),
		Limiter: ratelimit.NewMemory(1, time.Minute),
	}
	h := Admission(cfg)(okHandler())

	send := func(apiKey string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := send("mcp_u1_aaa"); got != http.StatusOK {
		t.Fatalf("first key request: status = %d, want 200", got)
	}
	if got := send("mcp_u1_aaa"); got != http.StatusTooManyRequests {
		t.Fatalf("second key request: status = %d, want 429", got)
	}
	// A different key gets its own bucket, as does the bare client IP.
	if got := send("mcp_u2_bbb"); got != http.StatusOK {
		t.Errorf("other key request: status = %d, want 200", got)
	}
	if got := send(""); got != http.StatusOK {
		t.Errorf("ip-keyed request: status = %d, want 200", got)
	}
}

func TestAdmissionTransportSecurity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		requireHTTPS bool
		proto        string
		host         string
		wantStatus   int
	}{
		{
			name:         "insecure proto on public host rejected",
			requireHTTPS: true,
			proto:        "http",
			host:         "api.example.com",
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "insecure proto on localhost allowed",
			requireHTTPS: true,
			proto:        "http",
			host:         "localhost:8080",
			wantStatus:   http.StatusOK,
		},
		{
			name:         "insecure proto on loopback allowed",
			requireHTTPS: true,
			proto:        "http",
			host:         "127.0.0.1:8080",
			wantStatus:   http.StatusOK,
		},
		{
			name:         "https proto allowed",
			requireHTTPS: true,
			proto:        "https",
			host:         "api.example.com",
			wantStatus:   http.StatusOK,
		},
		{
			name:         "absent header skips the check",
			requireHTTPS: true,
			proto:        "",
			host:         "api.example.com",
			wantStatus:   http.StatusOK,
		},
		{
			name:         "enforcement disabled",
			requireHTTPS: false,
			proto:        "http",
			host:         "api.example.com",
			wantStatus:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := AdmissionConfig{
				Logger:               discardLogger(),
				Limiter:              ratelimit.NewMemory(100, time.Minute),
				RequireHTTPS:         tt.requireHTTPS,
				InsecureAllowedHosts: []string{"127.0.0.1", "localhost"},
			}
			h := Admission(cfg)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			if tt.proto != "" {
				req.Header.Set(ForwardedProtoHeader, tt.proto)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusBadRequest && !strings.Contains(rec.Body.String(), "HTTPS required") {
				t.Errorf("body = %q, want HTTPS required message", rec.Body.String())
			}
		})
	}
}
