package domain

import "time"

// InvoiceStatus is the closed set of invoice states.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "Pending"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceOverdue   InvoiceStatus = "Overdue"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// InvoiceItem is a single billable line on an invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// Invoice is a patient invoice. InvoiceID is the human-readable code
// (INV-<year>-NNNNNNN); ID is the internal ULID.
type Invoice struct {
	ID          string        `json:"id"`
	InvoiceID   string        `json:"invoice_id"`
	PatientID   string        `json:"patient_id"` // internal patient id
	Status      InvoiceStatus `json:"status"`
	Items       []InvoiceItem `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	Discount    float64       `json:"discount"`
	PaidAmount  float64       `json:"paid_amount"`
	IssuedDate  time.Time     `json:"issued_date"`
	DueDate     time.Time     `json:"due_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
