package http

import (
	"encoding/json"
	"net/http"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// DepartmentsHandler serves the /api/departments endpoints. Reads are
// public; writes need the ADMIN role.
type DepartmentsHandler struct {
	Departments *service.DepartmentService
}

func (h *DepartmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Departments.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, departments)
}

// HandleGet accepts either an internal id or a URL slug.
func (h *DepartmentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.Departments.Get(r.Context(), r.PathValue("idOrSlug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

type departmentRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"image_url"`
	Icon            string   `json:"icon"`
	PatientServices []string `json:"patient_services"`
}

func (h *DepartmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	d, err := h.Departments.Create(r.Context(), service.CreateDepartmentInput{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Icon:            req.Icon,
		PatientServices: req.PatientServices,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, d)
}

func (h *DepartmentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	d, err := h.Departments.Update(r.Context(), r.PathValue("id"), service.UpdateDepartmentInput{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Icon:            req.Icon,
		PatientServices: req.PatientServices,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DepartmentsHandler) HandleSetSlides(w http.ResponseWriter, r *http.Request) {
	var slides []domain.Slide
	if err := json.NewDecoder(r.Body).Decode(&slides); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	d, err := h.Departments.SetSlides(r.Context(), r.PathValue("id"), slides)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DepartmentsHandler) HandleAssignStaff(w http.ResponseWriter, r *http.Request) {
	var assignments []domain.DepartmentStaff
	if err := json.NewDecoder(r.Body).Decode(&assignments); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	d, err := h.Departments.AssignStaff(r.Context(), r.PathValue("id"), assignments)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DepartmentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Departments.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
