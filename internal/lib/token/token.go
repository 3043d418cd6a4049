// Package token issues and verifies the HS256 JWTs used for access,
// email verification and password reset.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose restricts what a token may be used for. A verification token is
// never accepted as an access token and vice versa.
type Purpose string

const (
	PurposeAccess            Purpose = "access"
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongPurpose = errors.New("token issued for a different purpose")
)

type Claims struct {
	UserID  int64   `json:"uid"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Remaining is how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

type Manager struct {
	secret []byte
	issuer string
	ttls   map[Purpose]time.Duration
	now    func() time.Time
}

func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		ttls: map[Purpose]time.Duration{
			PurposeAccess:            cfg.AccessTokenTTL,
			PurposeEmailVerification: cfg.VerificationTokenTTL,
			PurposePasswordReset:     cfg.ResetTokenTTL,
		},
		now: time.Now,
	}
}

// TTL returns the configured lifetime for purpose.
func (m *Manager) TTL(purpose Purpose) time.Duration {
	return m.ttls[purpose]
}

// Issue signs a new token for userID. Every token gets a random id (jti)
// so it can be revoked individually.
func (m *Manager) Issue(userID int64, purpose Purpose) (string, *Claims, error) {
	ttl, ok := m.ttls[purpose]
	if !ok || ttl <= 0 {
		return "", nil, fmt.Errorf("no lifetime configured for %s tokens", purpose)
	}

	now := m.now()
	claims := &Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing %s token: %w", purpose, err)
	}

	return signed, claims, nil
}

// Parse verifies signature, issuer and expiry, then checks the purpose.
func (m *Manager) Parse(tokenString string, purpose Purpose) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if claims.UserID <= 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
