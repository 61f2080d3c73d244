// Package auth issues and verifies the signed session tokens that bind a
// client's pseudo-identity to its progress records.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusai/teachassist/internal/domain/learning"
)

const (
	SessionPrefix = "user_"
	issuerName    = "teachassist"
	defaultTTL    = 30 * 24 * time.Hour
)

var (
	ErrNoSecret     = errors.New("session secret is empty")
	ErrInvalidToken = errors.New("invalid or expired session token")
)

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// NewSessionID returns a fresh "user_" id with nine lowercase alphanumerics.
func NewSessionID() string {
	return SessionPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// Issue signs a token for a newly generated session id. Ids are never taken
// from the caller, so a token cannot be minted for someone else's progress.
func (i *Issuer) Issue() (learning.SessionGrant, error) {
	return i.issueFor(NewSessionID())
}

func (i *Issuer) issueFor(sessionID string) (learning.SessionGrant, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return learning.SessionGrant{}, errors.New("session id is empty")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return learning.SessionGrant{}, fmt.Errorf("sign session token: %w", err)
	}
	return learning.SessionGrant{
		SessionID: sessionID,
		Token:     signed,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	}, nil
}

// Verify returns the session id a token was issued for.
func (i *Issuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
