package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/finledger/finledger/internal/model"
)

func TestGenerateKeyFormat(t *testing.T) {
	t.Parallel()

	generated, err := GenerateKey(42)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	if !strings.HasPrefix(generated.Plaintext, "mcp_u42_") {
		t.Errorf("plaintext = %q, want mcp_u42_ prefix", generated.Plaintext)
	}
	if len(generated.Prefix) != KeyPrefixLen {
		t.Errorf("prefix length = %d, want %d", len(generated.Prefix), KeyPrefixLen)
	}
	if generated.Prefix != generated.Plaintext[:KeyPrefixLen] {
		t.Errorf("prefix = %q, want first %d chars of plaintext", generated.Prefix, KeyPrefixLen)
	}
	if got := DigestKey(generated.Plaintext); got != generated.Digest {
		t.Errorf("digest = %q, want %q", generated.Digest, got)
	}
	if len(generated.Digest) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(generated.Digest))
	}
}

func TestGenerateKeyUnique(t *testing.T) {
	t.Parallel()

	a, err := GenerateKey(1)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	b, err := GenerateKey(1)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	if a.Plaintext == b.Plaintext {
		t.Error("two generated keys share the same plaintext")
	}
}

func TestParseKeyOwnerID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		wantID  int64
		wantErr bool
	}{
		{name: "valid key", key: "mcp_u7_abcdef", wantID: 7},
		{name: "underscores in random part", key: "mcp_u7_ab_cd_ef", wantID: 7},
		{name: "large owner id", key: "mcp_u9007199254740_x", wantID: 9007199254740},
		{name: "zero owner id", key: "mcp_u0_x", wantID: 0},
		{name: "empty string", key: "", wantErr: true},
		{name: "wrong marker", key: "sk_u7_abcdef", wantErr: true},
		{name: "missing u segment", key: "mcp_7_abcdef", wantErr: true},
		{name: "non-numeric id", key: "mcp_uX_abcdef", wantErr: true},
		{name: "negative id", key: "mcp_u-3_abcdef", wantErr: true},
		{name: "missing random segment", key: "mcp_u7", wantErr: true},
		{name: "marker only", key: "mcp_u", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := ParseKeyOwnerID(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKeyOwnerID(%q) error = nil, want error", tt.key)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyOwnerID(%q) error = %v", tt.key, err)
			}
			if id != tt.wantID {
				t.Errorf("ParseKeyOwnerID(%q) = %d, want %d", tt.key, id, tt.wantID)
			}
		})
	}
}

func TestParseKeyOwnerIDRoundTrip(t *testing.T) {
	t.Parallel()

	generated, err := GenerateKey(123)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	id, err := ParseKeyOwnerID(generated.Plaintext)
	if err != nil {
		t.Fatalf("ParseKeyOwnerID() error = %v", err)
	}
	if id != 123 {
		t.Errorf("owner id = %d, want 123", id)
	}
}

func TestVerifyKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	generated, err := GenerateKey(5)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
		key       *model.APIKey
		want      bool
	}{
		{
			name:      "matching key without expiry",
			plaintext: generated.Plaintext,
			key:       &model.APIKey{KeyDigest: generated.Digest},
			want:      true,
		},
		{
			name:      "matching key with future expiry",
			plaintext: generated.Plaintext,
			key:       &model.APIKey{KeyDigest: generated.Digest, ExpiresAt: &future},
			want:      true,
		},
		{
			name:      "expired key fails even on digest match",
			plaintext: generated.Plaintext,
			key:       &model.APIKey{KeyDigest: generated.Digest, ExpiresAt: &past},
			want:      false,
		},
		{
			name:      "wrong plaintext",
			plaintext: "mcp_u5_wrong",
			key:       &model.APIKey{KeyDigest: generated.Digest},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := VerifyKey(tt.plaintext, tt.key, now); got != tt.want {
				t.Errorf("VerifyKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
