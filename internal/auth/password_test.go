package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want $argon2id$ prefix", hash)
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("VerifyPassword() = false for the right password")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("VerifyPassword() = true for the wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical")
	}
	if !VerifyPassword("same input", first) || !VerifyPassword("same input", second) {
		t.Error("both hashes should verify the original password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not a PHC string", hash: "plainhash"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{name: "truncated", hash: "$argon2id$v=19$m=65536"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if VerifyPassword("anything", tt.hash) {
				t.Errorf("VerifyPassword() = true for malformed hash %q", tt.hash)
			}
		})
	}
}
