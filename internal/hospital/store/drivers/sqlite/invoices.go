package sqlite

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

type invoicesRepo struct {
	db dbtx
}

const invoiceColumns = `id, invoice_id, patient_id, status, items,
	total_amount, discount, paid_amount, issued_date, due_date, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (domain.Invoice, error) {
	var (
		inv                           domain.Invoice
		status, items                 string
		issued, due, created, updated int64
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceID, &inv.PatientID, &status, &items,
		&inv.TotalAmount, &inv.Discount, &inv.PaidAmount,
		&issued, &due, &created, &updated,
	)
	if err != nil {
		return domain.Invoice{}, err
	}
	inv.Status = domain.InvoiceStatus(status)
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return domain.Invoice{}, err
	}
	inv.IssuedDate = time.Unix(issued, 0).UTC()
	inv.DueDate = time.Unix(due, 0).UTC()
	inv.CreatedAt = time.Unix(created, 0).UTC()
	inv.UpdatedAt = time.Unix(updated, 0).UTC()
	return inv, nil
}

func marshalItems(items []domain.InvoiceItem) (string, error) {
	if items == nil {
		items = []domain.InvoiceItem{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func (r *invoicesRepo) CreateInvoice(ctx context.Context, inv domain.Invoice) error {
	items, err := marshalItems(inv.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		inv.ID, inv.InvoiceID, inv.PatientID, string(inv.Status), items,
		inv.TotalAmount, inv.Discount, inv.PaidAmount,
		inv.IssuedDate.Unix(), inv.DueDate.Unix(),
		inv.CreatedAt.Unix(), inv.UpdatedAt.Unix(),
	)
	return mapUnique(err)
}

func (r *invoicesRepo) GetInvoiceByID(ctx context.Context, id string) (domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?;`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		return domain.Invoice{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invoicesRepo) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC;`)
}

func (r *invoicesRepo) ListInvoicesByPatient(ctx context.Context, patientID string) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE patient_id = ? ORDER BY created_at DESC;`,
		patientID)
}

func (r *invoicesRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoicesRepo) UpdateInvoice(ctx context.Context, inv domain.Invoice) error {
	items, err := marshalItems(inv.Items)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices SET
			status = ?, items = ?, total_amount = ?, discount = ?,
			paid_amount = ?, issued_date = ?, due_date = ?, updated_at = ?
		WHERE id = ?;
	`,
		string(inv.Status), items, inv.TotalAmount, inv.Discount,
		inv.PaidAmount, inv.IssuedDate.Unix(), inv.DueDate.Unix(),
		time.Now().Unix(), inv.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invoicesRepo) DeleteInvoice(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invoicesRepo) NextInvoiceSeq(ctx context.Context, year int) (int64, error) {
	return nextSeq(ctx, r.db, "invoices_"+strconv.Itoa(year))
}
