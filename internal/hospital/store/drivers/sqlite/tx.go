package sqlite

import (
	"context"
	"database/sql"

	"github.com/jotonhealth/joton/internal/hospital/store"
)

// txStore scopes every repository to one transaction. Handed to WithTx
// callbacks; the outer Store commits or rolls back.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Accounts() store.AccountRepo       { return &accountsRepo{db: t.tx} }
func (t *txStore) Patients() store.PatientRepo       { return &patientsRepo{db: t.tx} }
func (t *txStore) Staff() store.StaffRepo            { return &staffRepo{db: t.tx} }
func (t *txStore) Invoices() store.InvoiceRepo       { return &invoicesRepo{db: t.tx} }
func (t *txStore) Departments() store.DepartmentRepo { return &departmentsRepo{db: t.tx} }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

// Ping is a no-op inside a transaction: the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Close() error { return nil } // outer DB stays open
