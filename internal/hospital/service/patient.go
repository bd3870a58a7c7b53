package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/cryptox"
	"github.com/jotonhealth/joton/pkg/idx"
)

// PatientService manages patient records and their optional login accounts.
type PatientService struct {
	store      store.Store
	bcryptCost int
	now        func() time.Time
}

func NewPatientService(st store.Store, bcryptCost int) *PatientService {
	return &PatientService{store: st, bcryptCost: bcryptCost, now: time.Now}
}

type RegisterPatientInput struct {
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Gender       string
	BloodGroup   string
	ContactPhone string

	// Email and Password are optional. When both are set the patient gets a
	// login account with the PATIENT role.
	Email    string
	Password string
}

func (in RegisterPatientInput) validate() error {
	switch {
	case in.FirstName == "":
		return fmt.Errorf("%w: first name is required", ErrValidation)
	case in.LastName == "":
		return fmt.Errorf("%w: last name is required", ErrValidation)
	case in.DateOfBirth.IsZero():
		return fmt.Errorf("%w: date of birth is required", ErrValidation)
	case in.Gender == "":
		return fmt.Errorf("%w: gender is required", ErrValidation)
	case in.ContactPhone == "":
		return fmt.Errorf("%w: contact phone is required", ErrValidation)
	case (in.Email == "") != (in.Password == ""):
		return fmt.Errorf("%w: email and password must be provided together", ErrValidation)
	}
	return nil
}

// Register creates a patient record with a fresh JHMS record code, and a
// PATIENT login account when credentials were supplied. Record and account
// land in one transaction so neither can exist without the other.
func (s *PatientService) Register(ctx context.Context, in RegisterPatientInput) (domain.Patient, error) {
	if err := in.validate(); err != nil {
		return domain.Patient{}, err
	}

	now := s.now().UTC()
	p := domain.Patient{
		ID:           idx.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth,
		Gender:       in.Gender,
		BloodGroup:   in.BloodGroup,
		ContactPhone: in.ContactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var acct domain.Account
	if in.Email != "" {
		hash, err := cryptox.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return domain.Patient{}, err
		}
		acct = domain.Account{
			ID:           idx.New().String(),
			Email:        NormalizeEmail(in.Email),
			PasswordHash: hash,
			Role:         domain.RolePatient,
			Identity: domain.IdentityRef{
				ID:   p.ID,
				Kind: domain.IdentityPatient,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		p.AccountID = acct.ID
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		seq, err := tx.Patients().NextPatientSeq(ctx, now.Year())
		if err != nil {
			return err
		}
		p.PatientID = formatPatientRecordID(now.Year(), seq)

		if p.AccountID != "" {
			if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
				return err
			}
		}
		return tx.Patients().CreatePatient(ctx, p)
	})
	if err != nil {
		return domain.Patient{}, err
	}

	return p, nil
}

// Get fetches a patient record, enforcing ownership: a PATIENT-role caller
// may only see their own record. Staff roles passed the authorization gate
// already, so anything else goes through.
func (s *PatientService) Get(ctx context.Context, id, requesterAccountID string, requesterRole domain.Role) (domain.Patient, error) {
	p, err := s.store.Patients().GetPatientByID(ctx, id)
	if err != nil {
		return domain.Patient{}, err
	}
	if requesterRole == domain.RolePatient && p.AccountID != requesterAccountID {
		return domain.Patient{}, ErrForbidden
	}
	return p, nil
}

func (s *PatientService) GetByRecordID(ctx context.Context, recordID string) (domain.Patient, error) {
	return s.store.Patients().GetPatientByRecordID(ctx, recordID)
}

func (s *PatientService) List(ctx context.Context, q store.PatientQuery) ([]domain.Patient, error) {
	return s.store.Patients().ListPatients(ctx, q)
}

type UpdatePatientInput struct {
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Gender       string
	BloodGroup   string
	ContactPhone string
}

// Update edits a patient record. PATIENT-role callers may only edit their
// own record; staff roles edit any.
func (s *PatientService) Update(ctx context.Context, id string, in UpdatePatientInput, requesterAccountID string, requesterRole domain.Role) (domain.Patient, error) {
	p, err := s.store.Patients().GetPatientByID(ctx, id)
	if err != nil {
		return domain.Patient{}, err
	}
	if requesterRole == domain.RolePatient && p.AccountID != requesterAccountID {
		return domain.Patient{}, ErrForbidden
	}

	if in.FirstName != "" {
		p.FirstName = in.FirstName
	}
	if in.LastName != "" {
		p.LastName = in.LastName
	}
	if !in.DateOfBirth.IsZero() {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.BloodGroup != "" {
		p.BloodGroup = in.BloodGroup
	}
	if in.ContactPhone != "" {
		p.ContactPhone = in.ContactPhone
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Patients().UpdatePatient(ctx, p); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

// Delete removes the patient record and its login account, if any, in one
// transaction.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	p, err := s.store.Patients().GetPatientByID(ctx, id)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Patients().DeletePatient(ctx, id); err != nil {
			return err
		}
		if p.AccountID == "" {
			return nil
		}
		if err := tx.Accounts().DeleteAccount(ctx, p.AccountID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
}

func (s *PatientService) Count(ctx context.Context) (int64, error) {
	return s.store.Patients().CountPatients(ctx)
}
