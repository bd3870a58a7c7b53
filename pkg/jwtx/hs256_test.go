package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "joton-test"

func testCodecs() (*AccessCodec, *RefreshCodec) {
	access := &AccessCodec{
		Secret: []byte("access-secret-for-tests"),
		Issuer: testIssuer,
		TTL:    DefaultAccessTokenTTL,
	}
	refresh := &RefreshCodec{
		Secret: []byte("refresh-secret-for-tests"),
		Issuer: testIssuer,
		TTL:    DefaultRefreshTokenTTL,
	}
	return access, refresh
}

func TestAccessRoundTrip(t *testing.T) {
	t.Parallel()

	access, _ := testCodecs()
	token, err := access.Sign("acct-1", "DOCTOR", "staff-9", "Staff", time.Now())
	require.NoError(t, err)

	claims, err := access.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)
	require.Equal(t, "DOCTOR", claims.Role)
	require.Equal(t, "staff-9", claims.IdentityID)
	require.Equal(t, "Staff", claims.IdentityKind)
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestRefreshRoundTrip(t *testing.T) {
	t.Parallel()

	_, refresh := testCodecs()
	token, err := refresh.Sign("acct-1", time.Now())
	require.NoError(t, err)

	claims, err := refresh.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	access, refresh := testCodecs()
	now := time.Now()

	accessToken, err := access.Sign("acct-1", "NURSE", "staff-2", "Staff", now)
	require.NoError(t, err)
	refreshToken, err := refresh.Sign("acct-1", now)
	require.NoError(t, err)

	// A token of one kind must never verify under the other kind's secret.
	_, err = refresh.Verify(accessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = access.Verify(refreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	access, refresh := testCodecs()
	past := time.Now().Add(-1 * time.Hour)

	expiredAccess, err := access.Sign("acct-1", "ADMIN", "staff-1", "Staff", past.Add(-access.TTL))
	require.NoError(t, err)
	_, err = access.Verify(expiredAccess)
	require.ErrorIs(t, err, ErrExpired)

	shortRefresh := &RefreshCodec{Secret: refresh.Secret, Issuer: testIssuer, TTL: time.Minute}
	expiredRefresh, err := shortRefresh.Sign("acct-1", past)
	require.NoError(t, err)
	_, err = shortRefresh.Verify(expiredRefresh)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	access, _ := testCodecs()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := access.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	access, _ := testCodecs()
	other := &AccessCodec{Secret: access.Secret, Issuer: "someone-else", TTL: access.TTL}

	token, err := other.Sign("acct-1", "ADMIN", "staff-1", "Staff", time.Now())
	require.NoError(t, err)

	_, err = access.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
