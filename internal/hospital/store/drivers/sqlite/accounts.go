package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/store"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, email, password_hash, role, identity_id, identity_kind,
	refresh_hash, is_active, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a           domain.Account
		role, kind  string
		refreshHash sql.NullString
		created     int64
		updated     int64
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &role, &a.Identity.ID, &kind,
		&refreshHash, &a.IsActive, &created, &updated,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	a.Identity.Kind = domain.IdentityKind(kind)
	if refreshHash.Valid {
		a.RefreshHash = &refreshHash.String
	}
	a.CreatedAt = time.Unix(created, 0).UTC()
	a.UpdatedAt = time.Unix(updated, 0).UTC()
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, acct domain.Account) error {
	var refreshHash sql.NullString
	if acct.RefreshHash != nil {
		refreshHash = sql.NullString{String: *acct.RefreshHash, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		acct.ID, acct.Email, acct.PasswordHash, string(acct.Role),
		acct.Identity.ID, string(acct.Identity.Kind), refreshHash,
		acct.IsActive, acct.CreatedAt.Unix(), acct.UpdatedAt.Unix(),
	)
	return mapUnique(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?;`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?;`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?;`, id)
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

func (r *accountsRepo) CountAccountsByKind(ctx context.Context, kind domain.IdentityKind) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE identity_kind = ?;`, string(kind)).Scan(&n)
	return n, err
}

// ReplaceRefreshHash overwrites the stored fingerprint unconditionally.
func (r *accountsRepo) ReplaceRefreshHash(ctx context.Context, id string, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET refresh_hash = ?, updated_at = ? WHERE id = ?;
	`, hash, time.Now().Unix(), id)
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

// SetRefreshHash swaps the fingerprint only if the stored value still equals
// expectedOld. The conditional UPDATE is atomic, so of two concurrent swaps
// against the same old value at most one row is affected.
func (r *accountsRepo) SetRefreshHash(ctx context.Context, id string, expectedOld, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET refresh_hash = ?, updated_at = ?
		WHERE id = ? AND refresh_hash = ?;
	`, newHash, time.Now().Unix(), id, expectedOld)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *accountsRepo) ClearRefreshHash(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET refresh_hash = NULL, updated_at = ? WHERE id = ?;
	`, time.Now().Unix(), id)
	return err
}
