package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/model"
)

// AccountRepo implements AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

// Create inserts a new account row and returns its id.
// The login uniqueness constraint is the single source of truth: no
// existence pre-check is performed.
func (r *AccountRepo) Create(ctx context.Context, login, passwordDigest string) (int64, error) {
	const q = `
INSERT INTO account (login, password_digest)
VALUES ($1, $2)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, login, passwordDigest).Scan(&id)
	if isUniqueViolation(err) {
		return 0, errs.ErrAlreadyExists
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByLogin selects an account by login.
func (r *AccountRepo) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	const q = `
SELECT id, login, password_digest, created_at
FROM account WHERE login=$1`
	row := r.db.Pool.QueryRow(ctx, q, login)
	var a model.Account
	if err := row.Scan(&a.ID, &a.Login, &a.PasswordDigest, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an account by id; owned cards cascade at the schema level.
// Zero affected rows is still success (idempotent delete).
func (r *AccountRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM account WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

// UpdatePassword stores a new password digest for the login.
func (r *AccountRepo) UpdatePassword(ctx context.Context, login, passwordDigest string) error {
	const q = `UPDATE account SET password_digest=$2 WHERE login=$1`
	_, err := r.db.Pool.Exec(ctx, q, login, passwordDigest)
	return err
}
