package service

import (
	"context"
	"errors"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

// AccountService covers the admin-facing account operations and profile
// resolution for the logged-in caller.
type AccountService struct {
	store store.Store
}

func NewAccountService(st store.Store) *AccountService {
	return &AccountService{store: st}
}

func (s *AccountService) List(ctx context.Context) ([]domain.SanitizedAccount, error) {
	accounts, err := s.store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SanitizedAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Sanitize())
	}
	return out, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.store.Accounts().DeleteAccount(ctx, id)
}

// Profile is what an authenticated caller sees about themselves: the
// sanitized account plus the staff or patient record it points at.
type Profile struct {
	Account domain.SanitizedAccount `json:"account"`
	Staff   *domain.Staff           `json:"staff,omitempty"`
	Patient *domain.Patient         `json:"patient,omitempty"`
}

// GetProfile resolves the account's identity reference into the matching
// profile record. A dangling reference still returns the account.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (Profile, error) {
	acct, err := s.store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{Account: acct.Sanitize()}
	switch acct.Identity.Kind {
	case domain.IdentityStaff:
		member, err := s.store.Staff().GetStaffByID(ctx, acct.Identity.ID)
		if err == nil {
			p.Staff = &member
		} else if !errors.Is(err, store.ErrNotFound) {
			return Profile{}, err
		}
	case domain.IdentityPatient:
		patient, err := s.store.Patients().GetPatientByID(ctx, acct.Identity.ID)
		if err == nil {
			p.Patient = &patient
		} else if !errors.Is(err, store.ErrNotFound) {
			return Profile{}, err
		}
	}
	return p, nil
}
