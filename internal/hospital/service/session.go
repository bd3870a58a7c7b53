package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/cryptox"
	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/jotonhealth/joton/pkg/slogx"
)

// dummyHash absorbs a bcrypt comparison when the email matches no account,
// keeping the unknown-email and wrong-password paths on the same timing
// profile. Cost 10 matches the hash cost floor.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SessionService owns the credential and session lifecycle: validating
// passwords, minting token pairs and maintaining the single-session
// invariant through the stored refresh fingerprint.
type SessionService struct {
	store  store.Store
	tokens *TokenService

	// now is swappable for tests.
	now func() time.Time
}

func NewSessionService(st store.Store, tokens *TokenService) *SessionService {
	return &SessionService{
		store:  st,
		tokens: tokens,
		now:    time.Now,
	}
}

// NormalizeEmail lower-cases and trims an email so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks an email/password pair against the store. Unknown email,
// wrong password and inactive account all collapse into
// ErrInvalidCredentials. Store outages are passed through unchanged so they
// surface as 503, never as a credential failure.
func (s *SessionService) Validate(ctx context.Context, email, password string) (domain.Account, error) {
	acct, err := s.store.Accounts().GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// burn a comparison anyway
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, err
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		return domain.Account{}, ErrInvalidCredentials
	}

	if !acct.IsActive {
		return domain.Account{}, ErrInvalidCredentials
	}

	return acct, nil
}

// Login validates credentials, issues a fresh token pair and makes the new
// refresh token the account's only valid one. Any session that existed
// before is displaced.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Account, domain.TokenPair, error) {
	acct, err := s.Validate(ctx, email, password)
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(acct, s.now())
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	fp := cryptox.FingerprintToken(pair.RefreshToken)
	if err := s.store.Accounts().ReplaceRefreshHash(ctx, acct.ID, fp); err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("session started",
		slog.String("account_id", acct.ID),
		slog.String("role", acct.Role.String()),
	)
	return acct, pair, nil
}

// Rotate exchanges a presented refresh token for a new pair. The swap is a
// compare-and-swap on the stored fingerprint, so of two concurrent
// rotations with the same token exactly one wins; the loser, and any replay
// of an already-rotated token, gets ErrAccessDenied. The current session
// stays intact: only the stale credential is rejected.
func (s *SessionService) Rotate(ctx context.Context, presented string) (domain.Account, domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, ErrAccessDenied
	}

	acct, err := s.store.Accounts().GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, domain.TokenPair{}, ErrAccessDenied
		}
		return domain.Account{}, domain.TokenPair{}, err
	}

	if !acct.IsActive || acct.RefreshHash == nil {
		return domain.Account{}, domain.TokenPair{}, ErrAccessDenied
	}

	presentedFP := cryptox.FingerprintToken(presented)
	if !cryptox.FingerprintEqual(presentedFP, *acct.RefreshHash) {
		// reuse detection: a rotated-out token never matches the stored
		// fingerprint, so replays die here
		slogx.FromContext(ctx).Warn("stale refresh token presented",
			slog.String("account_id", acct.ID),
		)
		return domain.Account{}, domain.TokenPair{}, ErrAccessDenied
	}

	pair, err := s.tokens.IssuePair(acct, s.now())
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	swapped, err := s.store.Accounts().SetRefreshHash(
		ctx, acct.ID, presentedFP, cryptox.FingerprintToken(pair.RefreshToken))
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}
	if !swapped {
		// a concurrent rotation won the race with this same credential
		return domain.Account{}, domain.TokenPair{}, ErrAccessDenied
	}

	return acct, pair, nil
}

// VerifyAccess checks an access token and returns its claims.
func (s *SessionService) VerifyAccess(token string) (jwtx.AccessClaims, error) {
	return s.tokens.access.Verify(token)
}

// Logout revokes the account's session server-side. Idempotent: logging out
// twice, or with no session, succeeds.
func (s *SessionService) Logout(ctx context.Context, accountID string) error {
	if err := s.store.Accounts().ClearRefreshHash(ctx, accountID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("session ended", slog.String("account_id", accountID))
	return nil
}

// RevokeRefresh ends the session a presented refresh token belongs to, but
// only when the token is the session's current credential: a captured token
// that was already rotated out cannot revoke the live session. Idempotent
// like Logout; invalid tokens and ended sessions are no-ops.
func (s *SessionService) RevokeRefresh(ctx context.Context, presented string) error {
	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return nil
	}

	acct, err := s.store.Accounts().GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if acct.RefreshHash == nil {
		return nil
	}

	if !cryptox.FingerprintEqual(cryptox.FingerprintToken(presented), *acct.RefreshHash) {
		slogx.FromContext(ctx).Warn("stale refresh token on logout",
			slog.String("account_id", acct.ID),
		)
		return nil
	}
	return s.Logout(ctx, acct.ID)
}
