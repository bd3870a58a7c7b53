package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/internal/hospital/store/drivers/sqlite"
	"github.com/jotonhealth/joton/pkg/httpx"
	"github.com/jotonhealth/joton/pkg/jwtx"
)

type testEnv struct {
	router *Router
	store  store.Store
	staff  *service.StaffService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	accessCodec := &jwtx.AccessCodec{
		Secret: []byte("access-secret-for-tests"),
		Issuer: "joton-test",
		TTL:    jwtx.DefaultAccessTokenTTL,
	}
	refreshCodec := &jwtx.RefreshCodec{
		Secret: []byte("refresh-secret-for-tests"),
		Issuer: "joton-test",
		TTL:    jwtx.DefaultRefreshTokenTTL,
	}

	tokens := service.NewTokenService(accessCodec, refreshCodec)
	staff := service.NewStaffService(st, 10)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	router := NewRouter(accessCodec, false, "test", st, logger)
	router.SessionService = service.NewSessionService(st, tokens)
	router.AccountService = service.NewAccountService(st)
	router.PatientService = service.NewPatientService(st, 10)
	router.StaffService = staff
	router.InvoiceService = service.NewInvoiceService(st)
	router.DepartmentService = service.NewDepartmentService(st)
	router.SystemService = service.NewSystemService(st, staff, "setup-secret")
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, staff: staff}
}

// seedStaff creates a staff member with a login account and returns the
// work email; the password is always testPassword.
const testPassword = "correct-horse-battery"

func (e *testEnv) seedStaff(t *testing.T, email string, role domain.Role) domain.Staff {
	t.Helper()

	member, err := e.staff.Create(context.Background(), service.CreateStaffInput{
		FirstName:    "Test",
		LastName:     "User",
		JobTitle:     role,
		Department:   "General",
		WorkEmail:    email,
		ContactPhone: "+8801700000000",
		Password:     testPassword,
	})
	require.NoError(t, err)
	return member
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login returns the recorder so callers can pull cookies off it.
func (e *testEnv) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func cookiesByName(t *testing.T, rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	t.Helper()

	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestLoginSetsCookiesAndSanitizesBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "doctor@joton.test", domain.RoleDoctor)

	rec := env.login(t, "doctor@joton.test", testPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := cookiesByName(t, rec)
	for _, name := range []string{httpx.AccessCookieName, httpx.RefreshCookieName} {
		c, ok := cookies[name]
		require.True(t, ok, "missing %s cookie", name)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.NotEmpty(t, c.Value)
	}

	// no hashes or tokens in the body
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "refresh_hash")
	require.NotContains(t, rec.Body.String(), cookies[httpx.AccessCookieName].Value)
}

func TestLoginFailureTaxonomy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "doctor@joton.test", domain.RoleDoctor)

	t.Run("unknown email and wrong password look identical", func(t *testing.T) {
		unknown := env.login(t, "ghost@joton.test", testPassword)
		wrongPw := env.login(t, "doctor@joton.test", "bad-password")

		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
		require.Equal(t, "invalid_credentials", errorCode(t, unknown))
		require.Equal(t, "invalid_credentials", errorCode(t, wrongPw))
		require.Equal(t, unknown.Body.String(), wrongPw.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.login(t, "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "nurse@joton.test", domain.RoleNurse)

	loginRec := env.login(t, "nurse@joton.test", testPassword)
	require.Equal(t, http.StatusOK, loginRec.Code)
	r1 := cookiesByName(t, loginRec)[httpx.RefreshCookieName]

	refresh := func(c *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
		req.AddCookie(c)
		return env.do(req)
	}

	// first rotation succeeds and replaces both cookies
	rec := refresh(r1)
	require.Equal(t, http.StatusNoContent, rec.Code)
	r2 := cookiesByName(t, rec)[httpx.RefreshCookieName]
	require.NotNil(t, r2)
	require.NotEqual(t, r1.Value, r2.Value)

	// replaying the spent token is access_denied, not invalid_credentials
	rec = refresh(r1)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "access_denied", errorCode(t, rec))

	// the current token still works
	rec = refresh(r2)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "access_denied", errorCode(t, rec))
}

func TestLogoutRevokesSessionAndClearsCookies(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "admin@joton.test", domain.RoleAdmin)

	loginRec := env.login(t, "admin@joton.test", testPassword)
	cookies := cookiesByName(t, loginRec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookies[httpx.AccessCookieName])
	req.AddCookie(cookies[httpx.RefreshCookieName])
	rec := env.do(req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	cleared := cookiesByName(t, rec)
	require.Empty(t, cleared[httpx.AccessCookieName].Value)
	require.Empty(t, cleared[httpx.RefreshCookieName].Value)
	require.True(t, cleared[httpx.AccessCookieName].Expires.Before(time.Now()))

	// server-side revocation: the old refresh token is dead
	refreshReq := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	refreshReq.AddCookie(cookies[httpx.RefreshCookieName])
	rec = env.do(refreshReq)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "access_denied", errorCode(t, rec))
}

func TestLogoutWithStaleRefreshCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "doctor@joton.test", domain.RoleDoctor)

	loginRec := env.login(t, "doctor@joton.test", testPassword)
	old := cookiesByName(t, loginRec)

	// rotate so the login-time refresh cookie goes stale
	refreshReq := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	refreshReq.AddCookie(old[httpx.RefreshCookieName])
	rec := env.do(refreshReq)
	require.Equal(t, http.StatusNoContent, rec.Code)
	current := cookiesByName(t, rec)

	// logout with only the stale refresh cookie: cookies clear, but the
	// live session must survive
	logoutReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logoutReq.AddCookie(old[httpx.RefreshCookieName])
	rec = env.do(logoutReq)
	require.Equal(t, http.StatusNoContent, rec.Code)

	refreshReq = httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	refreshReq.AddCookie(current[httpx.RefreshCookieName])
	rec = env.do(refreshReq)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProtectedRouteGate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedStaff(t, "reception@joton.test", domain.RoleReceptionist)

	t.Run("no cookie is unauthorized", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthorized", errorCode(t, rec))
	})

	t.Run("garbage cookie is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		req.AddCookie(&http.Cookie{Name: httpx.AccessCookieName, Value: "garbage"})
		rec := env.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("insufficient role is forbidden", func(t *testing.T) {
		loginRec := env.login(t, "reception@joton.test", testPassword)
		access := cookiesByName(t, loginRec)[httpx.AccessCookieName]

		// /api/users needs ADMIN or OWNER
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.AddCookie(access)
		rec := env.do(req)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "forbidden", errorCode(t, rec))
	})

	t.Run("matching role passes without store IO on the gate", func(t *testing.T) {
		loginRec := env.login(t, "reception@joton.test", testPassword)
		access := cookiesByName(t, loginRec)[httpx.AccessCookieName]

		req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
		req.AddCookie(access)
		rec := env.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestProfileResolvesIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	member := env.seedStaff(t, "profile@joton.test", domain.RoleManager)

	loginRec := env.login(t, "profile@joton.test", testPassword)
	access := cookiesByName(t, loginRec)[httpx.AccessCookieName]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.AddCookie(access)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile service.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, domain.RoleManager, profile.Account.Role)
	require.NotNil(t, profile.Staff)
	require.Equal(t, member.StaffID, profile.Staff.StaffID)
	require.Nil(t, profile.Patient)
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("department list needs no auth", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/departments", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("staff count needs no auth", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/staff/count", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("system status reports uninitialized", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"initialized":false`)
	})

	t.Run("liveness and readiness", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRegisterAdminFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	body := func(secret string) *bytes.Reader {
		b, _ := json.Marshal(map[string]string{
			"secret":     secret,
			"first_name": "Root",
			"last_name":  "Admin",
			"email":      "root@joton.test",
			"password":   testPassword,
		})
		return bytes.NewReader(b)
	}

	t.Run("wrong secret is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register-admin", body("nope"))
		rec := env.do(req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("correct secret provisions the admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register-admin", body("setup-secret"))
		rec := env.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		// and the admin can log in
		loginRec := env.login(t, "root@joton.test", testPassword)
		require.Equal(t, http.StatusOK, loginRec.Code)
	})

	t.Run("second registration is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register-admin", body("setup-secret"))
		rec := env.do(req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
