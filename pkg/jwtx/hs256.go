package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpired      = errors.New("jwtx: token expired")
)

// Leeway allows small clock skew when validating exp/nbf/iat.
// Because time sync is never perfect.
const Leeway = 5 * time.Second

// AccessCodec signs and verifies access tokens with a dedicated HS256
// secret. The secret must differ from the refresh secret so that
// compromise of one kind cannot forge the other.
type AccessCodec struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Sign mints a signed access token for the given account.
func (c *AccessCodec) Sign(subject, role, identityID, identityKind string, now time.Time) (string, error) {
	claims := NewAccessClaims(subject, role, identityID, identityKind, c.Issuer, c.TTL, now)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

// Verify checks the signature, issuer and expiry of an access token and
// returns its claims.
func (c *AccessCodec) Verify(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := parseHS256(token, c.Secret, c.Issuer, &claims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// RefreshCodec signs and verifies refresh tokens with its own HS256 secret.
type RefreshCodec struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Sign mints a signed refresh token carrying only the account id.
func (c *RefreshCodec) Sign(subject string, now time.Time) (string, error) {
	claims := NewRefreshClaims(subject, c.Issuer, c.TTL, now)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

// Verify checks the signature, issuer and expiry of a refresh token and
// returns its claims.
func (c *RefreshCodec) Verify(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := parseHS256(token, c.Secret, c.Issuer, &claims); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func parseHS256(token string, secret []byte, issuer string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(Leeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalidToken
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
