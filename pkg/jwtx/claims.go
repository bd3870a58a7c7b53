package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants. Short-lived access tokens limit the blast
// radius of a leaked cookie; the refresh TTL bounds how long a session can
// stay idle before a full re-login is required.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims are the claims embedded in the short-lived access token.
// They carry everything the authorization gate needs so that no store
// lookup happens on the request path.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Role is the account's role name, e.g. "ADMIN" or "DOCTOR".
	Role string `json:"role"`

	// IdentityID points at the Staff or Patient profile for this account.
	IdentityID string `json:"identity_id"`

	// IdentityKind is "Staff" or "Patient" and tells the profile resolver
	// which collection IdentityID lives in.
	IdentityKind string `json:"identity_kind"`
}

// RefreshClaims are the claims embedded in the long-lived refresh token.
// Deliberately minimal: a leaked refresh token reveals nothing about the
// account's role or identity.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// NewAccessClaims builds minimally-correct access claims.
func NewAccessClaims(subject, role, identityID, identityKind, issuer string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		RegisteredClaims: newRegisteredClaims(subject, issuer, ttl, now),
		Role:             role,
		IdentityID:       identityID,
		IdentityKind:     identityKind,
	}
}

// NewRefreshClaims builds minimally-correct refresh claims.
func NewRefreshClaims(subject, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: newRegisteredClaims(subject, issuer, ttl, now),
	}
}

func newRegisteredClaims(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}
