package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finledger/finledger/internal/model"
)

// Key format: mcp_u<owner_id>_<random>
// Example: mcp_u42_h1X9v... (43 URL-safe chars of randomness)
const (
	// KeyMarker prefixes every plaintext key; the owner id follows the "u".
	KeyMarker = "mcp_u"
	// KeyPrefixLen is the number of leading plaintext characters stored for
	// display. The prefix is informational only and never used for matching.
	KeyPrefixLen = 12
	// keyRandomBytes is the entropy of the random suffix.
	keyRandomBytes = 32
)

// ErrMalformedKey indicates a plaintext key that does not match the
// expected structural format.
var ErrMalformedKey = errors.New("malformed API key")

// GeneratedKey contains the parts of a newly generated API key.
type GeneratedKey struct {
	Plaintext string // Full key (show once only)
	Digest    string // SHA-256 hex digest for storage
	Prefix    string // First 12 chars, for display
}

// GenerateKey creates a new API key for the given owner.
// Returns the plaintext (to show once), digest (to store), and prefix.
func GenerateKey(ownerID int64) (*GeneratedKey, error) {
	raw := make([]byte, keyRandomBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	plaintext := fmt.Sprintf("%s%d_%s", KeyMarker, ownerID, base64.RawURLEncoding.EncodeToString(raw))

	return &GeneratedKey{
		Plaintext: plaintext,
		Digest:    DigestKey(plaintext),
		Prefix:    plaintext[:KeyPrefixLen],
	}, nil
}

// DigestKey returns the SHA-256 hex digest of a plaintext key. The input
// already carries 32 bytes of entropy, so a fast unsalted hash is enough
// for storage and equality checking.
func DigestKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ParseKeyOwnerID extracts the owner id embedded in a plaintext key.
// The key must split on "_" into exactly three segments, with the middle
// segment a "u" followed by a non-negative decimal id. The random suffix
// may itself contain underscores, so only the first two delimiters count.
func ParseKeyOwnerID(plaintext string) (int64, error) {
	if !strings.HasPrefix(plaintext, KeyMarker) {
		return 0, ErrMalformedKey
	}

	parts := strings.SplitN(plaintext, "_", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[1], "u") {
		return 0, ErrMalformedKey
	}

	id, err := strconv.ParseInt(parts[1][1:], 10, 64)
	if err != nil || id < 0 {
		return 0, ErrMalformedKey
	}

	return id, nil
}

// VerifyKey reports whether plaintext matches the stored key record.
// An expired key always fails, even on a byte-correct match. The digest
// comparison is constant-time. On success the caller is expected to stamp
// last_used_at and persist it.
func VerifyKey(plaintext string, key *model.APIKey, now time.Time) bool {
	if key.IsExpired(now) {
		return false
	}
	digest := DigestKey(plaintext)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(key.KeyDigest)) == 1
}
