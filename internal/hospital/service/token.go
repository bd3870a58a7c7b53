package service

import (
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/pkg/jwtx"
)

// TokenService issues access/refresh token pairs. Issuing is pure: it signs
// and returns, it never touches the store.
type TokenService struct {
	access  *jwtx.AccessCodec
	refresh *jwtx.RefreshCodec
}

func NewTokenService(access *jwtx.AccessCodec, refresh *jwtx.RefreshCodec) *TokenService {
	return &TokenService{access: access, refresh: refresh}
}

// IssuePair signs a fresh access and refresh token for the account. The
// access token carries role and identity claims so the authorization gate
// never needs the store; the refresh token carries only the subject.
func (s *TokenService) IssuePair(acct domain.Account, now time.Time) (domain.TokenPair, error) {
	access, err := s.access.Sign(
		acct.ID, string(acct.Role), acct.Identity.ID, string(acct.Identity.Kind), now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.refresh.Sign(acct.ID, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// VerifyRefresh checks signature, issuer and expiry of a refresh token and
// returns its claims.
func (s *TokenService) VerifyRefresh(token string) (jwtx.RefreshClaims, error) {
	return s.refresh.Verify(token)
}
