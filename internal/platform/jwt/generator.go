// Package jwtmw issues and verifies HS256 session tokens and provides the
// Gin middleware that turns a bearer token into an authenticated principal.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo_backend/internal/feature/auth/domain/entity"
)

// DefaultExpiration is the validity window of a session token.
const DefaultExpiration = 24 * time.Hour

var errEmptySecret = errors.New("jwt secret must not be empty")

// Manager signs and parses session tokens with a shared HMAC secret.
type Manager struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewManager creates a Manager. A non-positive expiration falls back to DefaultExpiration.
func NewManager(secret, issuer string, expiration time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
	}, nil
}

// GenerateToken creates a signed token whose subject is accountID.
func (m *Manager) GenerateToken(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseToken verifies signature, algorithm, issuer and expiry.
func (m *Manager) ParseToken(tokenStr string) (*entity.Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	session := &entity.Session{
		AccountID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}
