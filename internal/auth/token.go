package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AdminSubject and AdminRole are the only claim values ever issued or
	// accepted. Pinning both prevents token confusion if the signing secret
	// is reused for another purpose.
	AdminSubject = "admin"
	AdminRole    = "admin"
)

// SessionClaims is the signed claim set carried by the session cookie.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies admin session tokens. Tokens are HS256
// JWTs with a fixed subject and role; there is no revocation list — a token
// dies by expiry or secret rotation.
type SessionManager struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a SessionManager. An empty secret is tolerated
// here — Issue fails and Verify rejects everything — so the server can run
// with the admin surface unconfigured.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed session token valid for the configured TTL.
func (sm *SessionManager) Issue() (string, error) {
	if sm.secret == "" {
		return "", fmt.Errorf("missing session signing secret")
	}

	now := sm.now()
	claims := &SessionClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminSubject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(sm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify validates a session token and returns its claims, or nil on any
// failure: empty input, bad signature, wrong algorithm, expiry, or a claim
// mismatch. It never returns an error — denial is the structural default so
// callers cannot fail open by mishandling one.
func (sm *SessionManager) Verify(tokenString string) *SessionClaims {
	if tokenString == "" || sm.secret == "" {
		return nil
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(sm.secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil || !token.Valid {
		return nil
	}

	if claims.Subject != AdminSubject || claims.Role != AdminRole {
		return nil
	}

	return claims
}
