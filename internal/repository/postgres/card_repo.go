package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/model"
)

// CardRepo implements CardRepository using PostgreSQL.
type CardRepo struct{ db *DB }

// NewCardRepo constructs a card repository.
func NewCardRepo(db *DB) *CardRepo { return &CardRepo{db: db} }

// List returns cards owned by accountID, narrowed to a single card when
// cardID is non-nil. Order of results is not guaranteed.
func (r *CardRepo) List(ctx context.Context, accountID int64, cardID *int64) ([]model.Card, error) {
	const qAll = `
SELECT id, account_id, last4digit, code, type
FROM card WHERE account_id=$1`
	const qOne = `
SELECT id, account_id, last4digit, code, type
FROM card WHERE account_id=$1 AND id=$2`

	var (
		rows pgx.Rows
		err  error
	)
	if cardID != nil {
		rows, err = r.db.Pool.Query(ctx, qOne, accountID, *cardID)
	} else {
		rows, err = r.db.Pool.Query(ctx, qAll, accountID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err = rows.Scan(&c.ID, &c.AccountID, &c.Last4Digit, &c.Code, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a card bound to accountID and returns the new id.
// A foreign key violation means the account does not exist; we never
// pre-check existence, the constraint is the source of truth.
func (r *CardRepo) Create(ctx context.Context, accountID int64, last4digit, code, cardType string) (int64, error) {
	const q = `
INSERT INTO card (account_id, last4digit, code, type)
VALUES ($1, $2, $3, $4)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, accountID, last4digit, code, cardType).Scan(&id)
	if isForeignKeyViolation(err) {
		return 0, errs.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies the present fields of patch to the card row. Columns not
// present in patch keep their values. Missing id is not an error.
func (r *CardRepo) Update(ctx context.Context, id int64, patch model.CardPatch) error {
	if patch.IsEmpty() {
		return errs.ErrEmptyUpdate
	}
	q, args := buildCardUpdate(id, patch)
	_, err := r.db.Pool.Exec(ctx, q, args...)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// Delete removes a card by id. Zero affected rows is still success.
func (r *CardRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM card WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

// UpdateFull stores the account's new password digest and applies patch to
// the card in one transaction, so a failing card update never leaves a
// changed password behind.
func (r *CardRepo) UpdateFull(
	ctx context.Context, login, passwordDigest string, cardID int64, patch model.CardPatch,
) (err error) {
	if patch.IsEmpty() {
		return errs.ErrEmptyUpdate
	}
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const updAccount = `UPDATE account SET password_digest=$2 WHERE login=$1`
	if _, err = tx.Exec(ctx, updAccount, login, passwordDigest); err != nil {
		return err
	}
	q, args := buildCardUpdate(cardID, patch)
	if _, err = tx.Exec(ctx, q, args...); err != nil {
		return err
	}
	return nil
}

// buildCardUpdate maps present patch fields to SET assignments. Values are
// always bound as parameters, never interpolated.
func buildCardUpdate(id int64, patch model.CardPatch) (string, []any) {
	args := []any{id}
	set := []string{}
	add := func(column string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.AccountID != nil {
		add("account_id", *patch.AccountID)
	}
	if patch.Last4Digit != nil {
		add("last4digit", *patch.Last4Digit)
	}
	if patch.Code != nil {
		add("code", *patch.Code)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	return fmt.Sprintf("UPDATE card SET %s WHERE id=$1", strings.Join(set, ", ")), args
}
