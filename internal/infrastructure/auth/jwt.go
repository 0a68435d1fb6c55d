package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token has expired")
)

// Claims is the payload of the signed credential issued by the auth service.
// The chat core only consumes it; issuance lives here for tests and tooling.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Verifier validates signed credentials and extracts the caller identity.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier over an HMAC secret.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Verifier{secret: secret}, nil
}

// NewVerifierFromEnv reads the secret from JWT_SECRET.
func NewVerifierFromEnv() (*Verifier, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("auth: JWT_SECRET environment variable is not set")
	}
	return NewVerifier([]byte(secret))
}

// Verify parses and validates a token string, returning the authenticated
// user id. Expired or malformed tokens are rejected.
func (v *Verifier) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// Sign issues a credential for userID with the given lifetime. Used by tests
// and local tooling; production tokens come from the auth service.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
