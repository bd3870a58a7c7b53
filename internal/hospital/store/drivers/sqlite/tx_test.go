package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jotonhealth/joton/internal/hospital/store"
)

func TestWithTxCommit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	acct := newTestAccount()
	err := s.WithTx(ctx, func(tx store.Store) error {
		return tx.Accounts().CreateAccount(ctx, acct)
	})
	require.NoError(t, err)

	got, err := s.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, acct.Email, got.Email)
}

func TestWithTxRollback(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	acct := newTestAccount()
	err := s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// the write inside the failed transaction never landed
	_, err = s.Accounts().GetAccountByID(ctx, acct.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxPartialFailure(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first := newTestAccount()
	require.NoError(t, s.Accounts().CreateAccount(ctx, first))

	// second write collides on the unique email, rolling back the first
	fresh := newTestAccount()
	dup := newTestAccount()
	dup.Email = first.Email
	err := s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Accounts().CreateAccount(ctx, fresh); err != nil {
			return err
		}
		return tx.Accounts().CreateAccount(ctx, dup)
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Accounts().GetAccountByID(ctx, fresh.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxNoNesting(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Store) error {
		return tx.WithTx(ctx, func(store.Store) error { return nil })
	})
	require.Error(t, err)
}
