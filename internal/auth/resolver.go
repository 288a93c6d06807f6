package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

// APIKeyHeader is the dedicated header carrying a plaintext API key.
const APIKeyHeader = "X-API-Key"

var (
	// ErrMissingCredentials indicates no credential material was presented.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidKey indicates a structurally valid API key that matches no
	// stored, unexpired key. Deliberately also covers "no such user" so the
	// response cannot confirm which half of the credential was wrong.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrUserNotFound indicates a valid session token referencing a user
	// that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// Credentials is the credential material extracted from a request:
// a bearer session token, a plaintext API key, or nothing (nil).
type Credentials interface {
	isCredentials()
}

// TokenCredential is a bearer session token.
type TokenCredential string

func (TokenCredential) isCredentials() {}

// KeyCredential is a plaintext API key.
type KeyCredential string

func (KeyCredential) isCredentials() {}

// CredentialsFromRequest inspects the request headers and returns the
// presented credential. A bearer Authorization header takes precedence over
// the API-key header; with neither present the result is nil.
func CredentialsFromRequest(r *http.Request) Credentials {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return TokenCredential(strings.TrimPrefix(authz, "Bearer "))
	}
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return KeyCredential(key)
	}
	return nil
}

// Store is the credential store consumed by the resolver.
// *repository.Repository satisfies it.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListAPIKeysByOwner(ctx context.Context, ownerID int64) ([]*model.APIKey, error)
	TouchAPIKey(ctx context.Context, id int64, usedAt time.Time) error
}

// Resolver turns inbound request credentials into an authenticated user.
type Resolver struct {
	store  Store
	secret string
	now    func() time.Time
}

// NewResolver creates a Resolver backed by the given store and signing secret.
func NewResolver(store Store, secret string) *Resolver {
	return &Resolver{
		store:  store,
		secret: secret,
		now:    time.Now,
	}
}

// Resolve authenticates the presented credentials and returns the owning
// user. Session tokens and API keys resolve to the same User aggregate;
// which form was used is not retained.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*model.User, error) {
	switch c := creds.(type) {
	case TokenCredential:
		return r.resolveToken(ctx, string(c))
	case KeyCredential:
		return r.resolveKey(ctx, string(c))
	default:
		return nil, ErrMissingCredentials
	}
}

func (r *Resolver) resolveToken(ctx context.Context, token string) (*model.User, error) {
	subject, err := VerifyToken(token, r.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := r.store.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

func (r *Resolver) resolveKey(ctx context.Context, plaintext string) (*model.User, error) {
	ownerID, err := ParseKeyOwnerID(plaintext)
	if err != nil {
		return nil, ErrMalformedKey
	}

	user, err := r.store.GetUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidKey
		}
		return nil, fmt.Errorf("lookup key owner: %w", err)
	}

	// The stored prefix is informational only, so every owned key is a
	// candidate; verification cost is bounded by the user's key count.
	keys, err := r.store.ListAPIKeysByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	now := r.now()
	for _, key := range keys {
		if VerifyKey(plaintext, key, now) {
			if err := r.store.TouchAPIKey(ctx, key.ID, now); err != nil {
				return nil, fmt.Errorf("stamp key usage: %w", err)
			}
			return user, nil
		}
	}

	return nil, ErrInvalidKey
}
