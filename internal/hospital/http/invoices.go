package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/pkg/httpx"
)

// InvoicesHandler serves the /api/invoices endpoints.
type InvoicesHandler struct {
	Invoices *service.InvoiceService
}

type createInvoiceRequest struct {
	PatientID string               `json:"patient_id"`
	Items     []domain.InvoiceItem `json:"items"`
	Discount  float64              `json:"discount"`
	DueDate   string               `json:"due_date"` // YYYY-MM-DD, optional
}

// HandleCreate godoc
//
//	@Summary	Issue an invoice
//	@Tags		Invoices
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	domain.Invoice
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse	"patient not found"
//	@Router		/invoices [post]
func (h *InvoicesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	in := service.CreateInvoiceInput{
		PatientID: req.PatientID,
		Items:     req.Items,
		Discount:  req.Discount,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"due_date must be YYYY-MM-DD")
			return
		}
		in.DueDate = due
	}

	inv, err := h.Invoices.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, inv)
}

func (h *InvoicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Invoices.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invoices)
}

// HandleListMine returns the invoices belonging to the caller's patient
// record.
func (h *InvoicesHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.AccountIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	invoices, err := h.Invoices.ListMine(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invoices)
}

func (h *InvoicesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	inv, err := h.Invoices.Get(r.Context(), r.PathValue("id"), claims.Subject, roleFromClaims(claims))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

type updateInvoiceRequest struct {
	Status     string   `json:"status"`
	PaidAmount *float64 `json:"paid_amount"`
	DueDate    string   `json:"due_date"`
}

func (h *InvoicesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	in := service.UpdateInvoiceInput{
		Status:     domain.InvoiceStatus(req.Status),
		PaidAmount: req.PaidAmount,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"due_date must be YYYY-MM-DD")
			return
		}
		in.DueDate = due
	}

	inv, err := h.Invoices.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

func (h *InvoicesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Invoices.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
