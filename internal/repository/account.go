package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

const accountColumns = `id, user_name, display_name, password_hash, salt, type, is_active, last_login`

type AccountRepo struct {
	db DBTX
}

func (r *AccountRepo) getOne(ctx context.Context, query string, args ...any) (*model.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	account, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Account])
	if err != nil {
		return nil, notFoundOr(err, "accounts")
	}
	return account, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByUserName matches the user name exactly, case included.
func (r *AccountRepo) GetByUserName(ctx context.Context, userName string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_name = $1`, userName)
}

func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Account])
}

func (r *AccountRepo) Create(ctx context.Context, account model.Account) (*model.Account, error) {
	return r.getOne(ctx, `
		INSERT INTO accounts (user_name, display_name, password_hash, salt, type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		account.UserName,
		account.DisplayName,
		account.PasswordHash,
		account.Salt,
		account.Type,
		account.IsActive,
	)
}

func (r *AccountRepo) UpdatePassword(ctx context.Context, id int, hash, salt string) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET password_hash = $2, salt = $3 WHERE id = $1`, id, hash, salt)
	return expectOne(tag, err, "accounts")
}

func (r *AccountRepo) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
	return expectOne(tag, err, "accounts")
}

func (r *AccountRepo) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET is_active = $2 WHERE id = $1`, id, active)
	return expectOne(tag, err, "accounts")
}

func (r *AccountRepo) FillMissingHash(ctx context.Context, salt, hash string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $2
		WHERE salt = $1 AND btrim(password_hash) = ''`,
		salt, hash,
	)
	if err != nil {
		return 0, fmt.Errorf("fill missing password hashes: %w", err)
	}
	return tag.RowsAffected(), nil
}
