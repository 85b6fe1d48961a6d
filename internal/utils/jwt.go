package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks
var ErrInvalidToken = errors.New("invalid session token")

// GenerateSessionToken signs a cookie value carrying the session id as its jti
func GenerateSessionToken(sessionID, secret string, expiresAt time.Time) (string, error) {
	// Set token claims
	claims := jwt.RegisteredClaims{
		ID:        sessionID,                      // Server-side session identifier
		ExpiresAt: jwt.NewNumericDate(expiresAt),  // Matches the session expiry
		IssuedAt:  jwt.NewNumericDate(time.Now()), // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseSessionToken validates a cookie value and returns the session id it carries
func ParseSessionToken(tokenStr, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
