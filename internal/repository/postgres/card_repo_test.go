package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestCardRepo_List_AllForAccount(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectQuery(`SELECT id, account_id, last4digit, code, type FROM card WHERE account_id=\$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "last4digit", "code", "type"}).
			AddRow(int64(1), int64(7), "1234", "123", "visa").
			AddRow(int64(2), int64(7), "5678", "4567", "mastercard"))

	cards, err := r.List(context.Background(), 7, nil)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, "1234", cards[0].Last4Digit)
	require.Equal(t, int64(7), cards[1].AccountID)
}

func TestCardRepo_List_SingleCard(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectQuery(`SELECT id, account_id, last4digit, code, type FROM card WHERE account_id=\$1 AND id=\$2`).
		WithArgs(int64(7), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "last4digit", "code", "type"}).
			AddRow(int64(2), int64(7), "5678", "4567", "mastercard"))

	cards, err := r.List(context.Background(), 7, ptr(int64(2)))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, int64(2), cards[0].ID)
}

func TestCardRepo_List_EmptyIsNotAnError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectQuery(`SELECT id, account_id, last4digit, code, type FROM card WHERE account_id=\$1`).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "last4digit", "code", "type"}))

	cards, err := r.List(context.Background(), 9, nil)
	require.NoError(t, err)
	require.NotNil(t, cards)
	require.Empty(t, cards)
}

func TestCardRepo_Create_OK_and_FKViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO card \(account_id, last4digit, code, type\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
		WithArgs(int64(7), "1234", "123", "visa").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	id, err := r.Create(ctx, 7, "1234", "123", "visa")
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	// Unknown account surfaces as not-found via the FK constraint.
	mock.ExpectQuery(`INSERT INTO card \(account_id, last4digit, code, type\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
		WithArgs(int64(404), "1234", "123", "visa").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	_, err = r.Create(ctx, 404, "1234", "123", "visa")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCardRepo_Update_SingleColumn(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectExec(`UPDATE card SET code=\$2 WHERE id=\$1`).
		WithArgs(int64(3), "999").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := r.Update(context.Background(), 3, model.CardPatch{Code: ptr("999")})
	require.NoError(t, err)
}

func TestCardRepo_Update_AllColumns(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectExec(`UPDATE card SET account_id=\$2, last4digit=\$3, code=\$4, type=\$5 WHERE id=\$1`).
		WithArgs(int64(3), int64(8), "4321", "777", "amex").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := r.Update(context.Background(), 3, model.CardPatch{
		AccountID:  ptr(int64(8)),
		Last4Digit: ptr("4321"),
		Code:       ptr("777"),
		Type:       ptr("amex"),
	})
	require.NoError(t, err)
}

func TestCardRepo_Update_EmptyPatchRejectedBeforeDB(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	err := r.Update(context.Background(), 3, model.CardPatch{})
	require.ErrorIs(t, err, errs.ErrEmptyUpdate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_Delete_IdempotentOnMissing(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectExec(`DELETE FROM card WHERE id=\$1`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.NoError(t, r.Delete(context.Background(), 404))
}

func TestCardRepo_UpdateFull_CommitsBothUpdates(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE account SET password_digest=\$2 WHERE login=\$1`).
		WithArgs("alice1", "new-digest").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE card SET account_id=\$2, last4digit=\$3, code=\$4, type=\$5 WHERE id=\$1`).
		WithArgs(int64(3), int64(7), "1234", "999", "visa").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := r.UpdateFull(context.Background(), "alice1", "new-digest", 3, model.CardPatch{
		AccountID:  ptr(int64(7)),
		Last4Digit: ptr("1234"),
		Code:       ptr("999"),
		Type:       ptr("visa"),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepo_UpdateFull_RollsBackWhenCardUpdateFails(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCardRepo(db)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE account SET password_digest=\$2 WHERE login=\$1`).
		WithArgs("alice1", "new-digest").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE card SET code=\$2 WHERE id=\$1`).
		WithArgs(int64(3), "999").
		WillReturnError(boom)
	mock.ExpectRollback()

	err := r.UpdateFull(context.Background(), "alice1", "new-digest", 3, model.CardPatch{Code: ptr("999")})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
