package auth

import (
	"time"

	"board-lab/domain"
	"board-lab/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "board-lab"

// CapabilityClaims binds a roster identity to a session.
// A reconnecting participant presents these instead of re-authenticating.
type CapabilityClaims struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies re-join capability tokens.
// The secret is loaded from the environment, never hardcoded.
type Issuer struct {
	key []byte
	ttl time.Duration
}

func NewIssuer(secret string, ttl time.Duration) Issuer {
	return Issuer{key: []byte(secret), ttl: ttl}
}

// Issue creates a signed token proving that userID holds role within sessionID.
func (i Issuer) Issue(sessionID uuid.UUID, userID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &CapabilityClaims{
		SessionID: sessionID.String(),
		UserID:    userID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	// HS256 (HMAC with SHA256), same algorithm for signing and verification.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", errors.Wrap(errors.KindInternal, err, "signing capability token")
	}
	return signed, nil
}

// Verify parses and validates the signature and expiration of a capability token.
// Every failure maps to the unauthorized kind so callers never need to inspect jwt internals.
func (i Issuer) Verify(tokenString string) (*CapabilityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CapabilityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindUnauthorized, err, "capability token rejected")
	}

	claims, ok := token.Claims.(*CapabilityClaims)
	if !ok || !token.Valid {
		return nil, errors.New(errors.KindUnauthorized, "capability token rejected")
	}
	if !domain.Role(claims.Role).Known() {
		return nil, errors.New(errors.KindUnauthorized, "capability token carries unknown role %q", claims.Role)
	}
	return claims, nil
}

// SessionUUID parses the session reference carried by the claims.
func (c *CapabilityClaims) SessionUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.SessionID)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.KindUnauthorized, err, "capability token carries malformed session id")
	}
	return id, nil
}
