package httpx

import (
	"net/http"
	"time"
)

// Cookie names for the two token kinds.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// SetAuthCookies attaches both token cookies to the response. Cookies are
// httpOnly and SameSite=Strict; secure should be true everywhere except
// local development.
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, secure bool) {
	http.SetCookie(w, authCookie(AccessCookieName, accessToken, secure))
	http.SetCookie(w, authCookie(RefreshCookieName, refreshToken, secure))
}

// ClearAuthCookies expires both token cookies immediately.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c := authCookie(name, "", secure)
		c.Expires = time.Unix(0, 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func authCookie(name, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ReadCookie returns the named cookie's value or "" when absent.
func ReadCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
