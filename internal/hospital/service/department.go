package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/idx"
)

// DepartmentService manages departments and their public-facing content.
type DepartmentService struct {
	store store.Store
	now   func() time.Time
}

func NewDepartmentService(st store.Store) *DepartmentService {
	return &DepartmentService{store: st, now: time.Now}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a department title.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

type CreateDepartmentInput struct {
	Title           string
	Description     string
	ImageURL        string
	Icon            string
	PatientServices []string
}

func (s *DepartmentService) Create(ctx context.Context, in CreateDepartmentInput) (domain.Department, error) {
	if in.Title == "" {
		return domain.Department{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	now := s.now().UTC()
	d := domain.Department{
		ID:              idx.New().String(),
		Title:           in.Title,
		Slug:            Slugify(in.Title),
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Icon:            in.Icon,
		PatientServices: in.PatientServices,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Departments().CreateDepartment(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

func (s *DepartmentService) Get(ctx context.Context, idOrSlug string) (domain.Department, error) {
	if _, err := idx.Parse(idOrSlug); err == nil {
		return s.store.Departments().GetDepartmentByID(ctx, idOrSlug)
	}
	return s.store.Departments().GetDepartmentBySlug(ctx, idOrSlug)
}

func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.store.Departments().ListDepartments(ctx)
}

type UpdateDepartmentInput struct {
	Title           string
	Description     string
	ImageURL        string
	Icon            string
	PatientServices []string
}

func (s *DepartmentService) Update(ctx context.Context, id string, in UpdateDepartmentInput) (domain.Department, error) {
	d, err := s.store.Departments().GetDepartmentByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}

	if in.Title != "" {
		d.Title = in.Title
		d.Slug = Slugify(in.Title)
	}
	if in.Description != "" {
		d.Description = in.Description
	}
	if in.ImageURL != "" {
		d.ImageURL = in.ImageURL
	}
	if in.Icon != "" {
		d.Icon = in.Icon
	}
	if in.PatientServices != nil {
		d.PatientServices = in.PatientServices
	}
	d.UpdatedAt = s.now().UTC()

	if err := s.store.Departments().UpdateDepartment(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

// SetSlides replaces the department's informational slides wholesale.
func (s *DepartmentService) SetSlides(ctx context.Context, id string, slides []domain.Slide) (domain.Department, error) {
	d, err := s.store.Departments().GetDepartmentByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}
	for _, slide := range slides {
		if slide.Title == "" {
			return domain.Department{}, fmt.Errorf("%w: slide title is required", ErrValidation)
		}
	}
	d.Slides = slides
	d.UpdatedAt = s.now().UTC()

	if err := s.store.Departments().UpdateDepartment(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

// AssignStaff replaces the department's staff assignments. Each referenced
// staff member must exist.
func (s *DepartmentService) AssignStaff(ctx context.Context, id string, assignments []domain.DepartmentStaff) (domain.Department, error) {
	d, err := s.store.Departments().GetDepartmentByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}
	for _, a := range assignments {
		if _, err := s.store.Staff().GetStaffByID(ctx, a.StaffID); err != nil {
			return domain.Department{}, err
		}
	}
	d.AssignedStaff = assignments
	d.UpdatedAt = s.now().UTC()

	if err := s.store.Departments().UpdateDepartment(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	return s.store.Departments().DeleteDepartment(ctx, id)
}
