package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type pinger struct {
	err error
}

func (p *pinger) Ping(_ context.Context) error {
	return p.err
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         HealthChecker
		cache      HealthChecker
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all healthy",
			db:         &pinger{},
			cache:      &pinger{},
			wantStatus: http.StatusOK,
			wantBody:   `"redis":"ok"`,
		},
		{
			name:       "redis not configured",
			db:         &pinger{},
			cache:      nil,
			wantStatus: http.StatusOK,
			wantBody:   `"redis":"not configured"`,
		},
		{
			name:       "database down",
			db:         &pinger{err: errors.New("connection refused")},
			cache:      nil,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"status":"unhealthy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(tt.db, tt.cache)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want substring %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
