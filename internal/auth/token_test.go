package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := IssueToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	subject, err := VerifyToken(token, "test-secret")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("subject = %q, want alice@example.com", subject)
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	t.Parallel()

	valid, err := IssueToken("alice@example.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	expired, err := IssueToken("alice@example.com", "test-secret", -time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	noSubject, err := IssueToken("", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other-secret"},
		{name: "expired token", token: expired, secret: "test-secret"},
		{name: "empty subject", token: noSubject, secret: "test-secret"},
		{name: "garbage token", token: "not.a.jwt", secret: "test-secret"},
		{name: "empty token", token: "", secret: "test-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := VerifyToken(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
