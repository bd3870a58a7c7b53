package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/internal/hospital/store/drivers/sqlite"
	"github.com/jotonhealth/joton/pkg/cryptox"
	"github.com/jotonhealth/joton/pkg/idx"
	"github.com/jotonhealth/joton/pkg/jwtx"
)

const testPassword = "correct-horse-battery"

type sessionEnv struct {
	store    store.Store
	sessions *SessionService
	tokens   *TokenService
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := NewTokenService(
		&jwtx.AccessCodec{Secret: []byte("access-secret-for-tests"), Issuer: "joton-test", TTL: jwtx.DefaultAccessTokenTTL},
		&jwtx.RefreshCodec{Secret: []byte("refresh-secret-for-tests"), Issuer: "joton-test", TTL: jwtx.DefaultRefreshTokenTTL},
	)

	return &sessionEnv{
		store:    st,
		sessions: NewSessionService(st, tokens),
		tokens:   tokens,
	}
}

func (e *sessionEnv) seedAccount(t *testing.T, active bool) domain.Account {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword, cryptox.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        strings.ToLower(idx.New().String()) + "@joton.test",
		PasswordHash: hash,
		Role:         domain.RoleDoctor,
		Identity: domain.IdentityRef{
			ID:   idx.New().String(),
			Kind: domain.IdentityStaff,
		},
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.Accounts().CreateAccount(context.Background(), acct))
	return acct
}

func TestValidate(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	t.Run("success", func(t *testing.T) {
		got, err := env.sessions.Validate(ctx, acct.Email, testPassword)
		require.NoError(t, err)
		require.Equal(t, acct.ID, got.ID)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		got, err := env.sessions.Validate(ctx, "  "+strings.ToUpper(acct.Email)+" ", testPassword)
		require.NoError(t, err)
		require.Equal(t, acct.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.sessions.Validate(ctx, "nobody@joton.test", testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.sessions.Validate(ctx, acct.Email, "not-the-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account reads as bad credentials", func(t *testing.T) {
		inactive := env.seedAccount(t, false)
		_, err := env.sessions.Validate(ctx, inactive.Email, testPassword)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginDisplacesPriorSession(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, first, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)

	_, second, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the first session's refresh token is no longer honored
	_, _, err = env.sessions.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrAccessDenied)

	// the second one is
	_, _, err = env.sessions.Rotate(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRotateChain(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, pair, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)
	r1 := pair.RefreshToken

	// r1 rotates into r2
	_, next, err := env.sessions.Rotate(ctx, r1)
	require.NoError(t, err)
	r2 := next.RefreshToken
	require.NotEqual(t, r1, r2)

	// replaying r1 is rejected
	_, _, err = env.sessions.Rotate(ctx, r1)
	require.ErrorIs(t, err, ErrAccessDenied)

	// the current credential r2 still works
	_, _, err = env.sessions.Rotate(ctx, r2)
	require.NoError(t, err)
}

func TestRotateConcurrent(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, pair, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)

	type outcome struct {
		ok  bool
		err error
	}
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, _, err := env.sessions.Rotate(ctx, pair.RefreshToken)
			results <- outcome{ok: err == nil, err: err}
		}()
	}

	wins := 0
	for i := 0; i < 2; i++ {
		res := <-results
		if res.ok {
			wins++
		} else {
			require.ErrorIs(t, res.err, ErrAccessDenied)
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent rotation must succeed")
}

func TestRotateRejectsGarbageAndForeignTokens(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, pair, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, _, err := env.sessions.Rotate(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		// signed with the access secret, must not pass refresh verification
		_, _, err := env.sessions.Rotate(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, pair, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)

	require.NoError(t, env.sessions.Logout(ctx, acct.ID))
	require.NoError(t, env.sessions.Logout(ctx, acct.ID)) // idempotent

	// no active session left to rotate
	_, _, err = env.sessions.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestRevokeRefresh(t *testing.T) {
	t.Parallel()

	env := newSessionEnv(t)
	ctx := context.Background()
	acct := env.seedAccount(t, true)

	_, pair, err := env.sessions.Login(ctx, acct.Email, testPassword)
	require.NoError(t, err)
	r1 := pair.RefreshToken

	_, next, err := env.sessions.Rotate(ctx, r1)
	require.NoError(t, err)
	r2 := next.RefreshToken

	t.Run("stale token cannot revoke the live session", func(t *testing.T) {
		require.NoError(t, env.sessions.RevokeRefresh(ctx, r1))

		got, err := env.store.Accounts().GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshHash)
	})

	t.Run("garbage is a no-op", func(t *testing.T) {
		require.NoError(t, env.sessions.RevokeRefresh(ctx, "not-a-jwt"))
	})

	t.Run("current token ends the session", func(t *testing.T) {
		require.NoError(t, env.sessions.RevokeRefresh(ctx, r2))

		got, err := env.store.Accounts().GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.Nil(t, got.RefreshHash)

		_, _, err = env.sessions.Rotate(ctx, r2)
		require.ErrorIs(t, err, ErrAccessDenied)
	})
}
