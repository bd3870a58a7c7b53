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

// StaffService manages staff records. Every staff member gets a login
// account whose role is their job title.
type StaffService struct {
	store      store.Store
	bcryptCost int
	now        func() time.Time
}

func NewStaffService(st store.Store, bcryptCost int) *StaffService {
	return &StaffService{store: st, bcryptCost: bcryptCost, now: time.Now}
}

type CreateStaffInput struct {
	FirstName    string
	LastName     string
	JobTitle     domain.Role
	Department   string
	WorkEmail    string
	ContactPhone string
	Password     string
}

func (in CreateStaffInput) validate() error {
	switch {
	case in.FirstName == "":
		return fmt.Errorf("%w: first name is required", ErrValidation)
	case in.LastName == "":
		return fmt.Errorf("%w: last name is required", ErrValidation)
	case !in.JobTitle.Valid() || in.JobTitle == domain.RolePatient:
		return fmt.Errorf("%w: job title must be a staff role", ErrValidation)
	case in.WorkEmail == "":
		return fmt.Errorf("%w: work email is required", ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// Create provisions a staff record with an EMP code and its login account.
// Both writes happen in one transaction: an account never exists without
// its staff record.
func (s *StaffService) Create(ctx context.Context, in CreateStaffInput) (domain.Staff, error) {
	if err := in.validate(); err != nil {
		return domain.Staff{}, err
	}

	// hash outside the transaction; bcrypt is slow
	hash, err := cryptox.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return domain.Staff{}, err
	}

	now := s.now().UTC()
	member := domain.Staff{
		ID:           idx.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		JobTitle:     in.JobTitle,
		Department:   in.Department,
		WorkEmail:    NormalizeEmail(in.WorkEmail),
		ContactPhone: in.ContactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        member.WorkEmail,
		PasswordHash: hash,
		Role:         in.JobTitle,
		Identity: domain.IdentityRef{
			ID:   member.ID,
			Kind: domain.IdentityStaff,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	member.AccountID = acct.ID

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		seq, err := tx.Staff().NextStaffSeq(ctx)
		if err != nil {
			return err
		}
		member.StaffID = formatStaffRecordID(seq)

		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			return err
		}
		return tx.Staff().CreateStaff(ctx, member)
	})
	if err != nil {
		return domain.Staff{}, err
	}

	return member, nil
}

func (s *StaffService) Get(ctx context.Context, id string) (domain.Staff, error) {
	return s.store.Staff().GetStaffByID(ctx, id)
}

// GetByRecordID looks a staff member up by their EMP code.
func (s *StaffService) GetByRecordID(ctx context.Context, recordID string) (domain.Staff, error) {
	return s.store.Staff().GetStaffByRecordID(ctx, recordID)
}

func (s *StaffService) List(ctx context.Context, q store.StaffQuery) ([]domain.Staff, error) {
	return s.store.Staff().ListStaff(ctx, q)
}

type UpdateStaffInput struct {
	FirstName    string
	LastName     string
	JobTitle     domain.Role
	Department   string
	ContactPhone string
}

func (s *StaffService) Update(ctx context.Context, id string, in UpdateStaffInput) (domain.Staff, error) {
	member, err := s.store.Staff().GetStaffByID(ctx, id)
	if err != nil {
		return domain.Staff{}, err
	}

	if in.FirstName != "" {
		member.FirstName = in.FirstName
	}
	if in.LastName != "" {
		member.LastName = in.LastName
	}
	if in.JobTitle != "" {
		if !in.JobTitle.Valid() || in.JobTitle == domain.RolePatient {
			return domain.Staff{}, fmt.Errorf("%w: job title must be a staff role", ErrValidation)
		}
		member.JobTitle = in.JobTitle
	}
	if in.Department != "" {
		member.Department = in.Department
	}
	if in.ContactPhone != "" {
		member.ContactPhone = in.ContactPhone
	}
	member.UpdatedAt = s.now().UTC()

	if err := s.store.Staff().UpdateStaff(ctx, member); err != nil {
		return domain.Staff{}, err
	}
	return member, nil
}

// Delete removes the staff record and its login account in one
// transaction. Revoking the account also kills any live session: the
// refresh hash goes with the row.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	member, err := s.store.Staff().GetStaffByID(ctx, id)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Staff().DeleteStaff(ctx, id); err != nil {
			return err
		}
		if member.AccountID == "" {
			return nil
		}
		if err := tx.Accounts().DeleteAccount(ctx, member.AccountID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
}

func (s *StaffService) Count(ctx context.Context) (int64, error) {
	return s.store.Staff().CountStaff(ctx)
}
