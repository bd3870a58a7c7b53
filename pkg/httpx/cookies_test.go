package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAuthCookies(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetAuthCookies(rec, "access-value", "refresh-value", true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[AccessCookieName]
	require.NotNil(t, access)
	require.Equal(t, "access-value", access.Value)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, http.SameSiteStrictMode, access.SameSite)
	require.Equal(t, "/", access.Path)

	refresh := byName[RefreshCookieName]
	require.NotNil(t, refresh)
	require.Equal(t, "refresh-value", refresh.Value)
}

func TestClearAuthCookies(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ClearAuthCookies(rec, false)

	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}
}

func TestReadCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, ReadCookie(req, AccessCookieName))

	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "tok"})
	require.Equal(t, "tok", ReadCookie(req, AccessCookieName))
}
