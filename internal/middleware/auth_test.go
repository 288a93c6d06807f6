package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

type stubStore struct {
	user *model.User
	keys []*model.APIKey
}

func (s *stubStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubStore) ListAPIKeysByOwner(_ context.Context, _ int64) ([]*model.APIKey, error) {
	return s.keys, nil
}

func (s *stubStore) TouchAPIKey(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	store := &stubStore{user: &model.User{ID: 9, Email: "dana@example.com"}}

	generated, err := auth.GenerateKey(9)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	store.keys = []*model.APIKey{{ID: 1, KeyDigest: generated.Digest, OwnerID: 9}}

	token, err := auth.IssueToken("dana@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	orphanToken, err := auth.IssueToken("gone@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	resolver := auth.NewResolver(store, "secret")
	mw := Auth(AuthConfig{Logger: discardLogger(), Resolver: resolver})

	var gotPrincipal *model.User
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		headers     map[string]string
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid bearer token",
			headers:    map[string]string{"Authorization": "Bearer " + token},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid api key",
			headers:    map[string]string{"X-API-Key": generated.Plaintext},
			wantStatus: http.StatusOK,
		},
		{
			name:        "no credentials",
			headers:     map[string]string{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Missing credentials",
		},
		{
			name:        "bad token",
			headers:     map[string]string{"Authorization": "Bearer nope"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "token for deleted user",
			headers:     map[string]string{"Authorization": "Bearer " + orphanToken},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "User not found",
		},
		{
			name:        "malformed api key",
			headers:     map[string]string{"X-API-Key": "not-a-key"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid API key format",
		},
		{
			name:        "unknown api key",
			headers:     map[string]string{"X-API-Key": "mcp_u9_doesnotmatch"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid API key",
		},
		{
			name:        "api key for unknown owner",
			headers:     map[string]string{"X-API-Key": "mcp_u404_whatever"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPrincipal = nil

			req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantMessage != "" && !strings.Contains(rec.Body.String(), tt.wantMessage) {
				t.Errorf("body = %q, want message %q", rec.Body.String(), tt.wantMessage)
			}
			if tt.wantStatus == http.StatusOK {
				if gotPrincipal == nil || gotPrincipal.ID != 9 {
					t.Errorf("principal = %+v, want user 9", gotPrincipal)
				}
			}
		})
	}
}
