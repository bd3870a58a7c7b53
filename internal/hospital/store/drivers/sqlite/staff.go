package sqlite

import (
	"context"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

type staffRepo struct {
	db dbtx
}

const staffColumns = `id, staff_id, first_name, last_name, job_title,
	department, work_email, contact_phone, account_id, created_at, updated_at`

func scanStaff(row interface{ Scan(...any) error }) (domain.Staff, error) {
	var (
		s                domain.Staff
		jobTitle         string
		created, updated int64
	)
	err := row.Scan(
		&s.ID, &s.StaffID, &s.FirstName, &s.LastName, &jobTitle,
		&s.Department, &s.WorkEmail, &s.ContactPhone, &s.AccountID,
		&created, &updated,
	)
	if err != nil {
		return domain.Staff{}, err
	}
	s.JobTitle = domain.Role(jobTitle)
	s.CreatedAt = time.Unix(created, 0).UTC()
	s.UpdatedAt = time.Unix(updated, 0).UTC()
	return s, nil
}

func (r *staffRepo) CreateStaff(ctx context.Context, s domain.Staff) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff (`+staffColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		s.ID, s.StaffID, s.FirstName, s.LastName, string(s.JobTitle),
		s.Department, s.WorkEmail, s.ContactPhone, s.AccountID,
		s.CreatedAt.Unix(), s.UpdatedAt.Unix(),
	)
	return mapUnique(err)
}

func (r *staffRepo) GetStaffByID(ctx context.Context, id string) (domain.Staff, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = ?;`, id)
	s, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, mapNotFound(err)
	}
	return s, nil
}

func (r *staffRepo) GetStaffByRecordID(ctx context.Context, recordID string) (domain.Staff, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE staff_id = ?;`, recordID)
	s, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, mapNotFound(err)
	}
	return s, nil
}

func (r *staffRepo) GetStaffByAccountID(ctx context.Context, accountID string) (domain.Staff, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE account_id = ?;`, accountID)
	s, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, mapNotFound(err)
	}
	return s, nil
}

func (r *staffRepo) ListStaff(ctx context.Context, q store.StaffQuery) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	var (
		conds []string
		args  []any
	)
	if q.Search != "" {
		conds = append(conds, `(first_name LIKE ? OR last_name LIKE ? OR staff_id LIKE ?)`)
		like := "%" + q.Search + "%"
		args = append(args, like, like, like)
	}
	if q.Department != "" {
		conds = append(conds, `department = ?`)
		args = append(args, q.Department)
	}
	if q.JobTitle != "" {
		conds = append(conds, `job_title = ?`)
		args = append(args, string(q.JobTitle))
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query+`;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	return members, rows.Err()
}

func (r *staffRepo) UpdateStaff(ctx context.Context, s domain.Staff) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff SET
			first_name = ?, last_name = ?, job_title = ?, department = ?,
			work_email = ?, contact_phone = ?, account_id = ?, updated_at = ?
		WHERE id = ?;
	`,
		s.FirstName, s.LastName, string(s.JobTitle), s.Department,
		s.WorkEmail, s.ContactPhone, s.AccountID, time.Now().Unix(),
		s.ID,
	)
	if err != nil {
		return mapUnique(err)
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

func (r *staffRepo) DeleteStaff(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?;`, id)
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

func (r *staffRepo) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff;`).Scan(&n)
	return n, err
}

func (r *staffRepo) NextStaffSeq(ctx context.Context) (int64, error) {
	return nextSeq(ctx, r.db, "staff")
}
