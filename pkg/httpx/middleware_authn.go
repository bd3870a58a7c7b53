package httpx

import (
	"net/http"

	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/jotonhealth/joton/pkg/slogx"
)

// AuthnMiddleware verifies the access-token cookie and attaches the decoded
// claims to the request context. Routes registered without this middleware
// are public; everything behind it fails closed with 401 when the cookie is
// missing, unparseable or expired. No store I/O happens here: the signed
// token is the whole authority.
func AuthnMiddleware(codec *jwtx.AccessCodec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := ReadCookie(r, AccessCookieName)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}
