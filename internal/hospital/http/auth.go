package http

import (
	"encoding/json"
	"net/http"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// AuthHandler serves the /api/auth/* endpoints. Tokens travel in two
// httpOnly cookies; response bodies never include them.
type AuthHandler struct {
	Sessions      *service.SessionService
	Accounts      *service.AccountService
	System        *service.SystemService
	SecureCookies bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Validates credentials, starts a session and sets the access/refresh cookies. Any prior session for the account is displaced.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	json	body	loginRequest	true	"Credentials"
//	@Success		200	{object}	domain.SanitizedAccount
//	@Failure		400	{object}	httpx.ErrorResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"invalid_credentials"
//	@Failure		503	{object}	httpx.ErrorResponse	"store_unavailable"
//	@Router			/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	acct, pair, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, acct.Sanitize())
}

// HandleRefresh godoc
//
//	@Summary		Refresh session
//	@Description	Rotates the refresh cookie into a fresh token pair. A stale or replayed refresh token is rejected with access_denied.
//	@Tags			Auth
//	@Produce		json
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse	"access_denied"
//	@Failure		503	{object}	httpx.ErrorResponse	"store_unavailable"
//	@Router			/auth/refresh [get]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	presented := httpx.ReadCookie(r, httpx.RefreshCookieName)
	if presented == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "access_denied", "no refresh credential")
		return
	}

	_, pair, err := h.Sessions.Rotate(r.Context(), presented)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogout clears the cookies and revokes the session server-side. It
// works even with an expired access token: the refresh cookie identifies
// the session being ended, but only while it is still the session's current
// credential. A stale refresh token clears cookies without touching the
// live session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, err := h.Sessions.VerifyAccess(httpx.ReadCookie(r, httpx.AccessCookieName)); err == nil {
		if err := h.Sessions.Logout(r.Context(), claims.Subject); err != nil {
			writeServiceError(w, r, err)
			return
		}
	} else if refresh := httpx.ReadCookie(r, httpx.RefreshCookieName); refresh != "" {
		if err := h.Sessions.RevokeRefresh(r.Context(), refresh); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	httpx.ClearAuthCookies(w, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// HandleProfile godoc
//
//	@Summary	Current account profile
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	service.Profile
//	@Failure	401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Router		/auth/profile [get]
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.AccountIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	profile, err := h.Accounts.GetProfile(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profile)
}

type registerAdminRequest struct {
	Secret       string `json:"secret"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ContactPhone string `json:"contact_phone"`
}

// HandleRegisterAdmin provisions the first ADMIN account. Only usable while
// no staff account exists and with the registration secret.
func (h *AuthHandler) HandleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	member, err := h.System.RegisterAdmin(r.Context(), req.Secret, service.CreateStaffInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		JobTitle:     domain.RoleAdmin,
		Department:   "Administration",
		WorkEmail:    req.Email,
		ContactPhone: req.ContactPhone,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, member)
}
