package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a session token that fails signature, expiry
// or shape checks.
var ErrInvalidToken = errors.New("invalid token")

// IssueToken produces a signed session token for the given subject (the
// user's email), expiring after ttl.
func IssueToken(subject, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})

	return token.SignedString([]byte(secret))
}

// VerifyToken validates a session token and returns its subject claim.
// Fails with ErrInvalidToken if the signature does not validate, the token
// is malformed or expired, or the subject claim is absent.
func VerifyToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
