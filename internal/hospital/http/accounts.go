package http

import (
	"net/http"

	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// AccountsHandler serves the admin-facing /api/users endpoints.
type AccountsHandler struct {
	Accounts *service.AccountService
}

// HandleList godoc
//
//	@Summary	List login accounts
//	@Tags		Accounts
//	@Produce	json
//	@Success	200	{array}	domain.SanitizedAccount
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/users [get]
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accounts)
}

func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
