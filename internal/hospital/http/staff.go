package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// StaffHandler serves the /api/staff endpoints.
type StaffHandler struct {
	Staff *service.StaffService
}

type createStaffRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	JobTitle     string `json:"job_title"`
	Department   string `json:"department"`
	WorkEmail    string `json:"work_email"`
	ContactPhone string `json:"contact_phone"`
	Password     string `json:"password"`
}

// HandleCreate godoc
//
//	@Summary	Create a staff member and their login account
//	@Tags		Staff
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	domain.Staff
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	409	{object}	httpx.ErrorResponse	"work email already in use"
//	@Router		/staff [post]
func (h *StaffHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	member, err := h.Staff.Create(r.Context(), service.CreateStaffInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		JobTitle:     domain.Role(req.JobTitle),
		Department:   req.Department,
		WorkEmail:    req.WorkEmail,
		ContactPhone: req.ContactPhone,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, member)
}

func (h *StaffHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := store.StaffQuery{
		Search:     r.URL.Query().Get("search"),
		Department: r.URL.Query().Get("department"),
		JobTitle:   domain.Role(r.URL.Query().Get("job_title")),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		q.Offset = offset
	}

	members, err := h.Staff.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, members)
}

func (h *StaffHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	member, err := h.Staff.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, member)
}

// HandleGetByCode resolves an EMP staff code to the full record.
func (h *StaffHandler) HandleGetByCode(w http.ResponseWriter, r *http.Request) {
	member, err := h.Staff.GetByRecordID(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, member)
}

type updateStaffRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	JobTitle     string `json:"job_title"`
	Department   string `json:"department"`
	ContactPhone string `json:"contact_phone"`
}

func (h *StaffHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	member, err := h.Staff.Update(r.Context(), r.PathValue("id"), service.UpdateStaffInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		JobTitle:     domain.Role(req.JobTitle),
		Department:   req.Department,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, member)
}

func (h *StaffHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCount is public; the landing page shows a headcount.
func (h *StaffHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Staff.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}
