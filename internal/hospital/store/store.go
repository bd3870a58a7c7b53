package store

import (
	"context"
	"errors"

	"github.com/jotonhealth/joton/internal/hospital/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists is returned when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store bundles every repository the services need. Drivers implement it
// over a single database handle so repositories can share transactions.
type Store interface {
	Accounts() AccountRepo
	Patients() PatientRepo
	Staff() StaffRepo
	Invoices() InvoiceRepo
	Departments() DepartmentRepo

	// WithTx executes fn within a transaction. fn receives a Tx-scoped
	// Store whose repositories all share the transaction; if fn returns an
	// error the transaction is rolled back, otherwise it is committed. Use
	// it for multi-step writes that must be atomic, like provisioning a
	// record together with its login account. Nesting is not supported.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Ping reports whether the underlying database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// AccountRepo persists login accounts and their session state.
//
// The refresh-hash operations are the write path for the single-session
// invariant: at most one refresh credential is valid per account, and the
// stored value is a fingerprint of it, never the token itself.
type AccountRepo interface {
	CreateAccount(ctx context.Context, acct domain.Account) error
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	CountAccountsByKind(ctx context.Context, kind domain.IdentityKind) (int64, error)

	// ReplaceRefreshHash unconditionally overwrites the stored refresh
	// fingerprint. Login uses it: a new session displaces any prior one.
	ReplaceRefreshHash(ctx context.Context, id string, hash string) error

	// SetRefreshHash performs a compare-and-swap: the stored fingerprint is
	// replaced by newHash only if it still equals expectedOld. It reports
	// whether the swap happened. Rotation uses it so that of two concurrent
	// rotations with the same credential exactly one can win.
	SetRefreshHash(ctx context.Context, id string, expectedOld, newHash string) (bool, error)

	// ClearRefreshHash removes the stored fingerprint. Idempotent.
	ClearRefreshHash(ctx context.Context, id string) error
}

// PatientQuery filters ListPatients. Zero value lists everything.
type PatientQuery struct {
	Search string // matches name or patient record code
	Limit  int
	Offset int
}

type PatientRepo interface {
	CreatePatient(ctx context.Context, p domain.Patient) error
	GetPatientByID(ctx context.Context, id string) (domain.Patient, error)
	GetPatientByRecordID(ctx context.Context, recordID string) (domain.Patient, error)
	GetPatientByAccountID(ctx context.Context, accountID string) (domain.Patient, error)
	ListPatients(ctx context.Context, q PatientQuery) ([]domain.Patient, error)
	UpdatePatient(ctx context.Context, p domain.Patient) error
	DeletePatient(ctx context.Context, id string) error
	CountPatients(ctx context.Context) (int64, error)
	// NextPatientSeq returns the next value of the per-year patient record
	// sequence, atomically.
	NextPatientSeq(ctx context.Context, year int) (int64, error)
}

// StaffQuery filters ListStaff. Zero value lists everything.
type StaffQuery struct {
	Search     string // matches name or employee code
	Department string
	JobTitle   domain.Role
	Limit      int
	Offset     int
}

type StaffRepo interface {
	CreateStaff(ctx context.Context, s domain.Staff) error
	GetStaffByID(ctx context.Context, id string) (domain.Staff, error)
	GetStaffByRecordID(ctx context.Context, recordID string) (domain.Staff, error)
	GetStaffByAccountID(ctx context.Context, accountID string) (domain.Staff, error)
	ListStaff(ctx context.Context, q StaffQuery) ([]domain.Staff, error)
	UpdateStaff(ctx context.Context, s domain.Staff) error
	DeleteStaff(ctx context.Context, id string) error
	CountStaff(ctx context.Context) (int64, error)
	// NextStaffSeq returns the next value of the employee code sequence.
	NextStaffSeq(ctx context.Context) (int64, error)
}

type InvoiceRepo interface {
	CreateInvoice(ctx context.Context, inv domain.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListInvoicesByPatient(ctx context.Context, patientID string) ([]domain.Invoice, error)
	UpdateInvoice(ctx context.Context, inv domain.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
	// NextInvoiceSeq returns the next value of the per-year invoice sequence.
	NextInvoiceSeq(ctx context.Context, year int) (int64, error)
}

type DepartmentRepo interface {
	CreateDepartment(ctx context.Context, d domain.Department) error
	GetDepartmentByID(ctx context.Context, id string) (domain.Department, error)
	GetDepartmentBySlug(ctx context.Context, slug string) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	UpdateDepartment(ctx context.Context, d domain.Department) error
	DeleteDepartment(ctx context.Context, id string) error
}
