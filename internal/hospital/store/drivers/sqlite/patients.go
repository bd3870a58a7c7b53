package sqlite

import (
	"context"
	"strconv"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

type patientsRepo struct {
	db dbtx
}

const patientColumns = `id, patient_id, first_name, last_name, date_of_birth,
	gender, blood_group, contact_phone, account_id, created_at, updated_at`

func scanPatient(row interface{ Scan(...any) error }) (domain.Patient, error) {
	var (
		p                     domain.Patient
		dob, created, updated int64
	)
	err := row.Scan(
		&p.ID, &p.PatientID, &p.FirstName, &p.LastName, &dob,
		&p.Gender, &p.BloodGroup, &p.ContactPhone, &p.AccountID,
		&created, &updated,
	)
	if err != nil {
		return domain.Patient{}, err
	}
	p.DateOfBirth = time.Unix(dob, 0).UTC()
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	return p, nil
}

func (r *patientsRepo) CreatePatient(ctx context.Context, p domain.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		p.ID, p.PatientID, p.FirstName, p.LastName, p.DateOfBirth.Unix(),
		p.Gender, p.BloodGroup, p.ContactPhone, p.AccountID,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	return mapUnique(err)
}

func (r *patientsRepo) GetPatientByID(ctx context.Context, id string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = ?;`, id)
	p, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	return p, nil
}

func (r *patientsRepo) GetPatientByRecordID(ctx context.Context, recordID string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE patient_id = ?;`, recordID)
	p, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	return p, nil
}

func (r *patientsRepo) GetPatientByAccountID(ctx context.Context, accountID string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE account_id = ?;`, accountID)
	p, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	return p, nil
}

func (r *patientsRepo) ListPatients(ctx context.Context, q store.PatientQuery) ([]domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []any{}
	if q.Search != "" {
		query += ` WHERE first_name LIKE ? OR last_name LIKE ? OR patient_id LIKE ?`
		like := "%" + q.Search + "%"
		args = append(args, like, like, like)
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

	var patients []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *patientsRepo) UpdatePatient(ctx context.Context, p domain.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients SET
			first_name = ?, last_name = ?, date_of_birth = ?, gender = ?,
			blood_group = ?, contact_phone = ?, account_id = ?, updated_at = ?
		WHERE id = ?;
	`,
		p.FirstName, p.LastName, p.DateOfBirth.Unix(), p.Gender,
		p.BloodGroup, p.ContactPhone, p.AccountID, time.Now().Unix(),
		p.ID,
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

func (r *patientsRepo) DeletePatient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?;`, id)
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

func (r *patientsRepo) CountPatients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients;`).Scan(&n)
	return n, err
}

func (r *patientsRepo) NextPatientSeq(ctx context.Context, year int) (int64, error) {
	return nextSeq(ctx, r.db, "patients_"+strconv.Itoa(year))
}
