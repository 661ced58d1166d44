package service

import (
	"context"

	pkgcrypto "github.com/asmirnov/cardvault/internal/crypto"
	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/model"
	"github.com/asmirnov/cardvault/internal/repository"
	"github.com/asmirnov/cardvault/internal/validate"
)

// FullCardUpdate carries a credential-gated composite update: the account's
// password change plus a card update with every field supplied.
type FullCardUpdate struct {
	Login       string
	Password    string
	NewPassword string

	CardID     int64
	Last4Digit string
	Code       string
	Type       string
}

// CardService defines operations over cards scoped to owning accounts.
type CardService interface {
	// List returns cards owned by accountID, or at most one when cardID is set.
	List(ctx context.Context, accountID int64, cardID *int64) ([]model.Card, error)
	// Create validates card fields and inserts a card bound to accountID.
	Create(ctx context.Context, accountID int64, last4digit, code, cardType string) (int64, error)
	// Update applies a non-empty partial update to a card.
	Update(ctx context.Context, id int64, patch model.CardPatch) error
	// Delete removes a card by id. Idempotent.
	Delete(ctx context.Context, id int64) error
	// UpdateFull verifies credentials, then atomically updates the account
	// password and all card fields.
	UpdateFull(ctx context.Context, upd FullCardUpdate) error
}

type CardServiceImpl struct {
	cards    repository.CardRepository
	accounts repository.AccountRepository
}

// NewCardService constructs CardService with required dependencies.
func NewCardService(cards repository.CardRepository, accounts repository.AccountRepository) *CardServiceImpl {
	return &CardServiceImpl{cards: cards, accounts: accounts}
}

// List delegates to the repository; an account with no cards yields an empty
// slice, not an error.
func (s *CardServiceImpl) List(ctx context.Context, accountID int64, cardID *int64) ([]model.Card, error) {
	return s.cards.List(ctx, accountID, cardID)
}

// Create validates last4digit and code and inserts the card. A missing
// account surfaces as errs.ErrNotFound from storage.
func (s *CardServiceImpl) Create(ctx context.Context, accountID int64, last4digit, code, cardType string) (int64, error) {
	if err := validate.Last4Digit(last4digit); err != nil {
		return 0, err
	}
	if err := validate.Code(code); err != nil {
		return 0, err
	}
	return s.cards.Create(ctx, accountID, last4digit, code, cardType)
}

// Update rejects empty patches and validates any supplied shaped fields;
// columns absent from the patch keep their values.
func (s *CardServiceImpl) Update(ctx context.Context, id int64, patch model.CardPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}
	return s.cards.Update(ctx, id, patch)
}

// Delete removes the card by id. Missing ids succeed.
func (s *CardServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.cards.Delete(ctx, id)
}

// UpdateFull is the composite operation: current credentials must verify
// first, then the password change and the four-field card update are applied
// in one storage transaction. A full update is a partial update with every
// field present.
func (s *CardServiceImpl) UpdateFull(ctx context.Context, upd FullCardUpdate) error {
	if err := verifyCredentials(ctx, s.accounts, upd.Login, upd.Password); err != nil {
		return err
	}
	patch := model.CardPatch{
		Last4Digit: &upd.Last4Digit,
		Code:       &upd.Code,
		Type:       &upd.Type,
	}
	if err := validatePatch(patch); err != nil {
		return err
	}
	digest, err := pkgcrypto.HashPassword(upd.NewPassword)
	if err != nil {
		return err
	}
	return s.cards.UpdateFull(ctx, upd.Login, digest, upd.CardID, patch)
}

func validatePatch(patch model.CardPatch) error {
	if patch.IsEmpty() {
		return errs.ErrEmptyUpdate
	}
	if patch.Last4Digit != nil {
		if err := validate.Last4Digit(*patch.Last4Digit); err != nil {
			return err
		}
	}
	if patch.Code != nil {
		if err := validate.Code(*patch.Code); err != nil {
			return err
		}
	}
	return nil
}
