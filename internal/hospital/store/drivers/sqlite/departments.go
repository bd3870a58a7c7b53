package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

type departmentsRepo struct {
	db dbtx
}

const departmentColumns = `id, title, slug, description, image_url, icon,
	patient_services, slides, assigned_staff, created_at, updated_at`

func scanDepartment(row interface{ Scan(...any) error }) (domain.Department, error) {
	var (
		d                       domain.Department
		services, slides, staff string
		created, updated        int64
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.Slug, &d.Description, &d.ImageURL, &d.Icon,
		&services, &slides, &staff, &created, &updated,
	)
	if err != nil {
		return domain.Department{}, err
	}
	if err := json.Unmarshal([]byte(services), &d.PatientServices); err != nil {
		return domain.Department{}, err
	}
	if err := json.Unmarshal([]byte(slides), &d.Slides); err != nil {
		return domain.Department{}, err
	}
	if err := json.Unmarshal([]byte(staff), &d.AssignedStaff); err != nil {
		return domain.Department{}, err
	}
	d.CreatedAt = time.Unix(created, 0).UTC()
	d.UpdatedAt = time.Unix(updated, 0).UTC()
	return d, nil
}

func marshalDepartment(d domain.Department) (services, slides, staff string, err error) {
	if d.PatientServices == nil {
		d.PatientServices = []string{}
	}
	if d.Slides == nil {
		d.Slides = []domain.Slide{}
	}
	if d.AssignedStaff == nil {
		d.AssignedStaff = []domain.DepartmentStaff{}
	}
	sb, err := json.Marshal(d.PatientServices)
	if err != nil {
		return "", "", "", err
	}
	lb, err := json.Marshal(d.Slides)
	if err != nil {
		return "", "", "", err
	}
	ab, err := json.Marshal(d.AssignedStaff)
	if err != nil {
		return "", "", "", err
	}
	return string(sb), string(lb), string(ab), nil
}

func (r *departmentsRepo) CreateDepartment(ctx context.Context, d domain.Department) error {
	services, slides, staff, err := marshalDepartment(d)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO departments (`+departmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		d.ID, d.Title, d.Slug, d.Description, d.ImageURL, d.Icon,
		services, slides, staff, d.CreatedAt.Unix(), d.UpdatedAt.Unix(),
	)
	return mapUnique(err)
}

func (r *departmentsRepo) GetDepartmentByID(ctx context.Context, id string) (domain.Department, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = ?;`, id)
	d, err := scanDepartment(row)
	if err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	return d, nil
}

func (r *departmentsRepo) GetDepartmentBySlug(ctx context.Context, slug string) (domain.Department, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE slug = ?;`, slug)
	d, err := scanDepartment(row)
	if err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	return d, nil
}

func (r *departmentsRepo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+departmentColumns+` FROM departments ORDER BY title ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentsRepo) UpdateDepartment(ctx context.Context, d domain.Department) error {
	services, slides, staff, err := marshalDepartment(d)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE departments SET
			title = ?, slug = ?, description = ?, image_url = ?, icon = ?,
			patient_services = ?, slides = ?, assigned_staff = ?, updated_at = ?
		WHERE id = ?;
	`,
		d.Title, d.Slug, d.Description, d.ImageURL, d.Icon,
		services, slides, staff, time.Now().Unix(), d.ID,
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

func (r *departmentsRepo) DeleteDepartment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?;`, id)
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
