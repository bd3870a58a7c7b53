package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// PatientsHandler serves the /api/patients endpoints.
type PatientsHandler struct {
	Patients *service.PatientService
}

type registerPatientRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DateOfBirth  string `json:"date_of_birth"` // YYYY-MM-DD
	Gender       string `json:"gender"`
	BloodGroup   string `json:"blood_group"`
	ContactPhone string `json:"contact_phone"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// HandleRegister godoc
//
//	@Summary	Register a patient
//	@Tags		Patients
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	domain.Patient
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/patients/register [post]
func (h *PatientsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"date_of_birth must be YYYY-MM-DD")
		return
	}

	p, err := h.Patients.Register(r.Context(), service.RegisterPatientInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		BloodGroup:   req.BloodGroup,
		ContactPhone: req.ContactPhone,
		Email:        req.Email,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *PatientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := store.PatientQuery{Search: r.URL.Query().Get("search")}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		q.Offset = offset
	}

	patients, err := h.Patients.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, patients)
}

// HandleGet enforces ownership: a PATIENT-role caller only sees their own
// record, staff roles see any.
func (h *PatientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	p, err := h.Patients.Get(r.Context(), r.PathValue("id"), claims.Subject, roleFromClaims(claims))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

type updatePatientRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	BloodGroup   string `json:"blood_group"`
	ContactPhone string `json:"contact_phone"`
}

func (h *PatientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req updatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	in := service.UpdatePatientInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		BloodGroup:   req.BloodGroup,
		ContactPhone: req.ContactPhone,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"date_of_birth must be YYYY-MM-DD")
			return
		}
		in.DateOfBirth = dob
	}

	p, err := h.Patients.Update(r.Context(), r.PathValue("id"), in, claims.Subject, roleFromClaims(claims))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *PatientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Patients.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
