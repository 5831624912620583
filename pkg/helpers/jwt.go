package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing key length in bytes. HS512 needs a
// key of at least the hash output size (512 bits).
const MinSecretLen = 64

var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and validates signed session tokens. The subject claim
// carries the username of the authenticated identity.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager builds a token manager for the given symmetric key and
// validity window. It fails when the key is too short for HS512 so that a
// misconfigured deployment dies at startup instead of issuing weak tokens.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", ttl)
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}, nil
}

// Generate issues a compact serialized token for the given subject with
// issuedAt = now and expiresAt = now + ttl.
func (m *JWTManager) Generate(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString(m.secret)
}

// Validate reports whether the token is well formed, carries a valid
// signature, and has not expired. It never returns an error: callers feed it
// untrusted input and only need a yes/no answer.
func (m *JWTManager) Validate(tokenStr string) bool {
	_, err := m.parse(tokenStr)
	return err == nil
}

// Subject returns the subject embedded at issuance. The token must have been
// validated or known-issued; anything else fails with a decoding error.
func (m *JWTManager) Subject(tokenStr string) (string, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *JWTManager) parse(tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
