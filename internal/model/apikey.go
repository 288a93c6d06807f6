package model

import "time"

// APIKey represents a long-lived API credential. Only the digest of the
// plaintext key is stored; the plaintext is shown once at creation or
// rotation and is never reconstructible afterwards.
type APIKey struct {
	ID         int64      `json:"id"`
	Name       *string    `json:"name"`
	KeyDigest  string     `json:"-"` // Never serialize
	KeyPrefix  string     `json:"key_prefix"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	OwnerID    int64      `json:"-"`
}

// IsExpired reports whether the key's expiry, if set, has passed.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// APIKeyCreateRequest is the payload for creating or rotating a key.
// TTLDays, when set, fixes expires_at to now + that many days.
type APIKeyCreateRequest struct {
	Name    *string `json:"name"`
	TTLDays *int    `json:"ttl_days"`
}

// APIKeyResponse is key metadata exposed to the owner. It never carries the
// digest or the plaintext.
type APIKeyResponse struct {
	ID         int64      `json:"id"`
	Name       *string    `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// ToResponse converts an APIKey to APIKeyResponse.
func (k *APIKey) ToResponse() APIKeyResponse {
	return APIKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		KeyPrefix:  k.KeyPrefix,
		CreatedAt:  k.CreatedAt,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
	}
}

// APIKeyCreateResponse includes the plaintext key (shown only once).
type APIKeyCreateResponse struct {
	APIKeyResponse
	PlainKey string `json:"plain_key"`
}
