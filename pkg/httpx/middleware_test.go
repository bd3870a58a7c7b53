package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func testAccessCodec() *jwtx.AccessCodec {
	return &jwtx.AccessCodec{
		Secret: []byte("httpx-test-access-secret"),
		Issuer: "joton-test",
		TTL:    time.Minute,
	}
}

func okHandler(t *testing.T, wantAccount string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, wantAccount, claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthnMiddlewareMissingCookie(t *testing.T) {
	t.Parallel()

	codec := testAccessCodec()
	h := Chain(okHandler(t, ""), AuthnMiddleware(codec))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthnMiddlewareExpiredToken(t *testing.T) {
	t.Parallel()

	codec := testAccessCodec()
	token, err := codec.Sign("acct-1", "DOCTOR", "staff-1", "Staff", time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	h := Chain(okHandler(t, "acct-1"), AuthnMiddleware(codec))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthnMiddlewareValidToken(t *testing.T) {
	t.Parallel()

	codec := testAccessCodec()
	token, err := codec.Sign("acct-1", "DOCTOR", "staff-1", "Staff", time.Now())
	require.NoError(t, err)

	h := Chain(okHandler(t, "acct-1"), AuthnMiddleware(codec))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()

	codec := testAccessCodec()

	protected := func(roles ...string) http.Handler {
		return Chain(okHandler(t, "acct-1"),
			AuthnMiddleware(codec),
			RequireAnyRole(roles...),
		)
	}

	sign := func(role string) string {
		token, err := codec.Sign("acct-1", role, "staff-1", "Staff", time.Now())
		require.NoError(t, err)
		return token
	}

	t.Run("matching role reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: sign("ADMIN")})
		rec := httptest.NewRecorder()
		protected("ADMIN", "OWNER").ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: sign("PATIENT")})
		rec := httptest.NewRecorder()
		protected("ADMIN", "OWNER").ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "forbidden")
	})

	t.Run("no authentication is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := Chain(okHandler(t, ""), RequireAnyRole("ADMIN"))
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPublicRouteNeedsNoCookies(t *testing.T) {
	t.Parallel()

	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		require.False(t, ok)
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Chain(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}
