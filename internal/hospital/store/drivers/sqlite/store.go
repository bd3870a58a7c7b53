package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jotonhealth/joton/internal/hospital/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Accounts() store.AccountRepo       { return &accountsRepo{db: s.db} }
func (s *Store) Patients() store.PatientRepo       { return &patientsRepo{db: s.db} }
func (s *Store) Staff() store.StaffRepo            { return &staffRepo{db: s.db} }
func (s *Store) Invoices() store.InvoiceRepo       { return &invoicesRepo{db: s.db} }
func (s *Store) Departments() store.DepartmentRepo { return &departmentsRepo{db: s.db} }

// WithTx runs fn inside a transaction; every repository on the Store handed
// to fn shares it. Rolled back when fn errors, committed otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// dbtx is the querying surface shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside WithTx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapNotFound converts sql.ErrNoRows into the store sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUnique converts a unique-constraint violation into the store sentinel.
func mapUnique(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// nextSeq bumps a named counter and returns its new value. The upsert is a
// single statement, so concurrent callers get distinct values.
func nextSeq(ctx context.Context, db dbtx, name string) (int64, error) {
	var v int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = value + 1
		RETURNING value;
	`, name).Scan(&v)
	return v, err
}
