package http

import (
	"net/http"

	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// SystemHandler serves the /api/system endpoints.
type SystemHandler struct {
	System       *service.SystemService
	BuildVersion string
}

// HandleStatus reports initialization state plus a database health bit.
func (h *SystemHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.System.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		service.SystemStatus
		Version string `json:"version"`
	}{SystemStatus: status, Version: h.BuildVersion})
}

// HandleSetupToken reports whether first-run admin registration is open,
// and while it is, hands out the registration secret so the installer can
// complete setup. The secret is never revealed after the first staff
// account exists.
func (h *SystemHandler) HandleSetupToken(w http.ResponseWriter, r *http.Request) {
	token, open, err := h.System.SetupToken(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	resp := map[string]any{"setup_open": open}
	if open {
		resp["setup_token"] = token
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
