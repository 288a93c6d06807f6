package auth

import (
	"context"

	"github.com/finledger/finledger/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// principalContextKey is the context key for the resolved principal.
	principalContextKey contextKey = "principal"
)

// ContextWithPrincipal adds the authenticated user to the context.
func ContextWithPrincipal(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, principalContextKey, user)
}

// PrincipalFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func PrincipalFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(principalContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustPrincipalFromContext retrieves the authenticated user from the context.
// Panics if not present (use only when auth middleware has run).
func MustPrincipalFromContext(ctx context.Context) *model.User {
	user := PrincipalFromContext(ctx)
	if user == nil {
		panic("principal not found - ensure auth middleware is applied")
	}
	return user
}
