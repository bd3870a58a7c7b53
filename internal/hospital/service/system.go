package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

// SystemService reports deployment state and handles first-run admin
// provisioning.
type SystemService struct {
	store store.Store
	staff *StaffService

	// registrationSecret gates admin registration. Empty disables it.
	registrationSecret string
}

func NewSystemService(st store.Store, staff *StaffService, registrationSecret string) *SystemService {
	return &SystemService{
		store:              st,
		staff:              staff,
		registrationSecret: registrationSecret,
	}
}

type SystemStatus struct {
	Initialized  bool      `json:"initialized"`
	StaffCount   int64     `json:"staff_count"`
	PatientCount int64     `json:"patient_count"`
	DatabaseOK   bool      `json:"database_ok"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Status reports whether the system has been initialized (at least one
// staff account exists) and whether the database answers.
func (s *SystemService) Status(ctx context.Context) (SystemStatus, error) {
	status := SystemStatus{CheckedAt: time.Now().UTC()}

	status.DatabaseOK = s.store.Ping(ctx) == nil

	staffCount, err := s.store.Accounts().CountAccountsByKind(ctx, domain.IdentityStaff)
	if err != nil {
		return SystemStatus{}, err
	}
	status.StaffCount = staffCount
	status.Initialized = staffCount > 0

	patientCount, err := s.store.Patients().CountPatients(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	status.PatientCount = patientCount

	return status, nil
}

// SetupOpen reports whether first-run admin registration is currently
// possible: a secret is configured and no staff account exists yet.
func (s *SystemService) SetupOpen(ctx context.Context) (bool, error) {
	if s.registrationSecret == "" {
		return false, nil
	}
	count, err := s.store.Accounts().CountAccountsByKind(ctx, domain.IdentityStaff)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// SetupToken returns the registration secret, but only while setup is
// open. Once any staff account exists the secret is never revealed again.
func (s *SystemService) SetupToken(ctx context.Context) (string, bool, error) {
	open, err := s.SetupOpen(ctx)
	if err != nil || !open {
		return "", false, err
	}
	return s.registrationSecret, true, nil
}

// RegisterAdmin provisions the first ADMIN staff member. It only works
// while setup is open and the caller presents the registration secret; any
// failure, including a wrong secret, reads as ErrForbidden.
func (s *SystemService) RegisterAdmin(ctx context.Context, secret string, in CreateStaffInput) (domain.Staff, error) {
	open, err := s.SetupOpen(ctx)
	if err != nil {
		return domain.Staff{}, err
	}
	if !open {
		return domain.Staff{}, ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.registrationSecret)) != 1 {
		return domain.Staff{}, ErrForbidden
	}

	in.JobTitle = domain.RoleAdmin
	return s.staff.Create(ctx, in)
}
