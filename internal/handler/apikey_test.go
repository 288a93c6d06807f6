package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/finledger/finledger/internal/model"
)

func TestBuildAPIKey(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	name := "ci key"
	ttl := 30

	key, generated, err := h.buildAPIKey(42, model.APIKeyCreateRequest{Name: &name, TTLDays: &ttl})
	if err != nil {
		t.Fatalf("buildAPIKey() error = %v", err)
	}

	if !strings.HasPrefix(generated.Plaintext, "mcp_u42_") {
		t.Errorf("plaintext = %q, want mcp_u42_ prefix", generated.Plaintext)
	}
	if key.KeyDigest != generated.Digest {
		t.Error("stored digest differs from generated digest")
	}
	if key.KeyPrefix != generated.Prefix {
		t.Error("stored prefix differs from generated prefix")
	}
	if key.Name == nil || *key.Name != "ci key" {
		t.Errorf("name = %v, want ci key", key.Name)
	}
	if key.OwnerID != 42 {
		t.Errorf("owner id = %d, want 42", key.OwnerID)
	}
	if key.ExpiresAt == nil {
		t.Fatal("ExpiresAt = nil, want ttl applied")
	}
	until := time.Until(*key.ExpiresAt)
	if until < 29*24*time.Hour || until > 31*24*time.Hour {
		t.Errorf("expiry in %v, want roughly 30 days", until)
	}
}

func TestBuildAPIKeyNoTTL(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	key, _, err := h.buildAPIKey(1, model.APIKeyCreateRequest{})
	if err != nil {
		t.Fatalf("buildAPIKey() error = %v", err)
	}

	if key.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil without ttl_days", key.ExpiresAt)
	}
	if key.Name != nil {
		t.Errorf("Name = %v, want nil", key.Name)
	}
}
