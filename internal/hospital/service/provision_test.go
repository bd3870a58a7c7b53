package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/internal/hospital/store/drivers/sqlite"
	"github.com/jotonhealth/joton/pkg/cryptox"
)

func newProvisionStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestStaffCreate(t *testing.T) {
	t.Parallel()

	st := newProvisionStore(t)
	staff := NewStaffService(st, cryptox.MinCost)
	ctx := context.Background()

	member, err := staff.Create(ctx, CreateStaffInput{
		FirstName:    "Ayesha",
		LastName:     "Rahman",
		JobTitle:     domain.RoleDoctor,
		Department:   "Cardiology",
		WorkEmail:    "Ayesha.Rahman@joton.test",
		ContactPhone: "+8801700000000",
		Password:     "a-strong-password",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(member.StaffID, "EMP-"))
	require.NotEmpty(t, member.AccountID)

	t.Run("linked account carries the job title as role", func(t *testing.T) {
		acct, err := st.Accounts().GetAccountByID(ctx, member.AccountID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleDoctor, acct.Role)
		require.Equal(t, domain.IdentityStaff, acct.Identity.Kind)
		require.Equal(t, member.ID, acct.Identity.ID)
		require.Equal(t, "ayesha.rahman@joton.test", acct.Email)
	})

	t.Run("patient is not a staff role", func(t *testing.T) {
		_, err := staff.Create(ctx, CreateStaffInput{
			FirstName: "X", LastName: "Y",
			JobTitle:  domain.RolePatient,
			WorkEmail: "x@joton.test", Password: "pw",
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("delete removes the account too", func(t *testing.T) {
		require.NoError(t, staff.Delete(ctx, member.ID))
		_, err := st.Accounts().GetAccountByID(ctx, member.AccountID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStaffCreateAtomic(t *testing.T) {
	t.Parallel()

	st := newProvisionStore(t)
	staff := NewStaffService(st, cryptox.MinCost)
	ctx := context.Background()

	// occupy the EMP code the fresh sequence will hand out, so the staff
	// insert inside Create collides after the account insert succeeded
	now := time.Now().UTC()
	require.NoError(t, st.Staff().CreateStaff(ctx, domain.Staff{
		ID:        "squatter",
		StaffID:   "EMP-00001",
		FirstName: "Held", LastName: "Code",
		JobTitle: domain.RoleNurse, Department: "Ward",
		WorkEmail: "held.code@joton.test",
		CreatedAt: now, UpdatedAt: now,
	}))

	_, err := staff.Create(ctx, CreateStaffInput{
		FirstName: "Tariq", LastName: "Aziz",
		JobTitle: domain.RoleDoctor, Department: "Cardiology",
		WorkEmail: "tariq.aziz@joton.test",
		Password:  "a-strong-password",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// no orphaned login account survives the failed provisioning
	_, err = st.Accounts().GetAccountByEmail(ctx, "tariq.aziz@joton.test")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatientRegisterAtomic(t *testing.T) {
	t.Parallel()

	st := newProvisionStore(t)
	patients := NewPatientService(st, cryptox.MinCost)
	ctx := context.Background()

	dob := time.Date(1985, time.July, 2, 0, 0, 0, 0, time.UTC)
	_, err := patients.Register(ctx, RegisterPatientInput{
		FirstName: "Salma", LastName: "Begum",
		DateOfBirth: dob, Gender: "female", ContactPhone: "+8801755555555",
	})
	require.NoError(t, err)

	// duplicate contact phone fails the patient insert after the account
	// insert; the transaction must take the account down with it
	_, err = patients.Register(ctx, RegisterPatientInput{
		FirstName: "Imran", LastName: "Hossain",
		DateOfBirth: dob, Gender: "male", ContactPhone: "+8801755555555",
		Email: "imran@joton.test", Password: "patient-password",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Accounts().GetAccountByEmail(ctx, "imran@joton.test")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatientRegister(t *testing.T) {
	t.Parallel()

	st := newProvisionStore(t)
	patients := NewPatientService(st, cryptox.MinCost)
	ctx := context.Background()

	dob := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)

	t.Run("without login account", func(t *testing.T) {
		p, err := patients.Register(ctx, RegisterPatientInput{
			FirstName: "Karim", LastName: "Uddin",
			DateOfBirth: dob, Gender: "male", ContactPhone: "+8801811111111",
		})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(p.PatientID, "JHMS-"))
		require.Empty(t, p.AccountID)
	})

	t.Run("with login account", func(t *testing.T) {
		p, err := patients.Register(ctx, RegisterPatientInput{
			FirstName: "Nadia", LastName: "Islam",
			DateOfBirth: dob, Gender: "female", ContactPhone: "+8801822222222",
			Email: "nadia@joton.test", Password: "patient-password",
		})
		require.NoError(t, err)
		require.NotEmpty(t, p.AccountID)

		acct, err := st.Accounts().GetAccountByID(ctx, p.AccountID)
		require.NoError(t, err)
		require.Equal(t, domain.RolePatient, acct.Role)
		require.Equal(t, domain.IdentityPatient, acct.Identity.Kind)

		t.Run("owner can read their own record", func(t *testing.T) {
			got, err := patients.Get(ctx, p.ID, acct.ID, domain.RolePatient)
			require.NoError(t, err)
			require.Equal(t, p.ID, got.ID)
		})

		t.Run("another patient cannot", func(t *testing.T) {
			_, err := patients.Get(ctx, p.ID, "someone-else", domain.RolePatient)
			require.ErrorIs(t, err, ErrForbidden)
		})

		t.Run("staff roles can", func(t *testing.T) {
			_, err := patients.Get(ctx, p.ID, "any-staff-account", domain.RoleReceptionist)
			require.NoError(t, err)
		})

		t.Run("owner can update their own record", func(t *testing.T) {
			got, err := patients.Update(ctx, p.ID,
				UpdatePatientInput{ContactPhone: "+8801833333333"},
				acct.ID, domain.RolePatient)
			require.NoError(t, err)
			require.Equal(t, "+8801833333333", got.ContactPhone)
		})

		t.Run("another patient cannot update", func(t *testing.T) {
			_, err := patients.Update(ctx, p.ID,
				UpdatePatientInput{ContactPhone: "+8801800000000"},
				"someone-else", domain.RolePatient)
			require.ErrorIs(t, err, ErrForbidden)
		})
	})

	t.Run("email without password rejected", func(t *testing.T) {
		_, err := patients.Register(ctx, RegisterPatientInput{
			FirstName: "A", LastName: "B",
			DateOfBirth: dob, Gender: "other", ContactPhone: "1",
			Email: "lonely@joton.test",
		})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestRegisterAdmin(t *testing.T) {
	t.Parallel()

	st := newProvisionStore(t)
	staff := NewStaffService(st, cryptox.MinCost)
	system := NewSystemService(st, staff, "setup-secret")
	ctx := context.Background()

	input := CreateStaffInput{
		FirstName: "Root", LastName: "Admin",
		Department: "Administration",
		WorkEmail:  "admin@joton.test", Password: "admin-password",
		ContactPhone: "+8801900000000",
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := system.RegisterAdmin(ctx, "nope", input)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("correct secret while setup is open", func(t *testing.T) {
		open, err := system.SetupOpen(ctx)
		require.NoError(t, err)
		require.True(t, open)

		member, err := system.RegisterAdmin(ctx, "setup-secret", input)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, member.JobTitle)
	})

	t.Run("closed once a staff account exists", func(t *testing.T) {
		open, err := system.SetupOpen(ctx)
		require.NoError(t, err)
		require.False(t, open)

		input.WorkEmail = "second@joton.test"
		_, err = system.RegisterAdmin(ctx, "setup-secret", input)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("status reflects initialization", func(t *testing.T) {
		status, err := system.Status(ctx)
		require.NoError(t, err)
		require.True(t, status.Initialized)
		require.True(t, status.DatabaseOK)
		require.Equal(t, int64(1), status.StaffCount)
	})

	t.Run("disabled without a configured secret", func(t *testing.T) {
		other := NewSystemService(newProvisionStore(t), staff, "")
		open, err := other.SetupOpen(ctx)
		require.NoError(t, err)
		require.False(t, open)
	})
}
