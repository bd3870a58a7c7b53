package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/idx"
)

// InvoiceService manages patient invoices.
type InvoiceService struct {
	store store.Store
	now   func() time.Time
}

func NewInvoiceService(st store.Store) *InvoiceService {
	return &InvoiceService{store: st, now: time.Now}
}

type CreateInvoiceInput struct {
	PatientID string // internal patient id
	Items     []domain.InvoiceItem
	Discount  float64
	DueDate   time.Time
}

func (in CreateInvoiceInput) validate() error {
	switch {
	case in.PatientID == "":
		return fmt.Errorf("%w: patient id is required", ErrValidation)
	case len(in.Items) == 0:
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	case in.Discount < 0:
		return fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	for _, item := range in.Items {
		if item.Description == "" || item.Cost < 0 {
			return fmt.Errorf("%w: each item needs a description and a non-negative cost", ErrValidation)
		}
	}
	return nil
}

// Create issues a new Pending invoice with an INV code. The total is
// derived from the items, never taken from the caller.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (domain.Invoice, error) {
	if err := in.validate(); err != nil {
		return domain.Invoice{}, err
	}

	// the patient must exist
	if _, err := s.store.Patients().GetPatientByID(ctx, in.PatientID); err != nil {
		return domain.Invoice{}, err
	}

	now := s.now().UTC()
	seq, err := s.store.Invoices().NextInvoiceSeq(ctx, now.Year())
	if err != nil {
		return domain.Invoice{}, err
	}

	var total float64
	for _, item := range in.Items {
		total += item.Cost
	}
	total -= in.Discount
	if total < 0 {
		total = 0
	}

	due := in.DueDate
	if due.IsZero() {
		due = now.AddDate(0, 0, 30)
	}

	inv := domain.Invoice{
		ID:          idx.New().String(),
		InvoiceID:   formatInvoiceRecordID(now.Year(), seq),
		PatientID:   in.PatientID,
		Status:      domain.InvoicePending,
		Items:       in.Items,
		TotalAmount: total,
		Discount:    in.Discount,
		IssuedDate:  now,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Invoices().CreateInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// Get fetches an invoice, enforcing ownership for PATIENT-role callers.
func (s *InvoiceService) Get(ctx context.Context, id, requesterAccountID string, requesterRole domain.Role) (domain.Invoice, error) {
	inv, err := s.store.Invoices().GetInvoiceByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if requesterRole == domain.RolePatient {
		p, err := s.store.Patients().GetPatientByID(ctx, inv.PatientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invoice{}, ErrForbidden
			}
			return domain.Invoice{}, err
		}
		if p.AccountID != requesterAccountID {
			return domain.Invoice{}, ErrForbidden
		}
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.store.Invoices().ListInvoices(ctx)
}

// ListMine resolves the caller's patient record and returns its invoices.
func (s *InvoiceService) ListMine(ctx context.Context, accountID string) ([]domain.Invoice, error) {
	p, err := s.store.Patients().GetPatientByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []domain.Invoice{}, nil
		}
		return nil, err
	}
	return s.store.Invoices().ListInvoicesByPatient(ctx, p.ID)
}

type UpdateInvoiceInput struct {
	Status     domain.InvoiceStatus
	PaidAmount *float64
	DueDate    time.Time
}

func (s *InvoiceService) Update(ctx context.Context, id string, in UpdateInvoiceInput) (domain.Invoice, error) {
	inv, err := s.store.Invoices().GetInvoiceByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	if in.Status != "" {
		if !in.Status.Valid() {
			return domain.Invoice{}, fmt.Errorf("%w: unknown invoice status %q", ErrValidation, in.Status)
		}
		inv.Status = in.Status
	}
	if in.PaidAmount != nil {
		if *in.PaidAmount < 0 {
			return domain.Invoice{}, fmt.Errorf("%w: paid amount cannot be negative", ErrValidation)
		}
		inv.PaidAmount = *in.PaidAmount
		// settling the full amount flips the status, unless the caller set
		// one explicitly in the same request; zero-total invoices never
		// auto-flip
		if in.Status == "" && inv.TotalAmount > 0 && inv.PaidAmount >= inv.TotalAmount {
			inv.Status = domain.InvoicePaid
		}
	}
	if !in.DueDate.IsZero() {
		inv.DueDate = in.DueDate
	}
	inv.UpdatedAt = s.now().UTC()

	if err := s.store.Invoices().UpdateInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	return s.store.Invoices().DeleteInvoice(ctx, id)
}
