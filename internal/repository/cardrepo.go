package repository

import (
	"context"

	"github.com/asmirnov/cardvault/internal/model"
)

// CardRepository provides access to cards scoped to their owning accounts.
type CardRepository interface {
	// List returns all cards owned by accountID, or at most the one matching
	// cardID when it is non-nil. Missing rows yield an empty slice.
	List(ctx context.Context, accountID int64, cardID *int64) ([]model.Card, error)
	// Create inserts a card bound to accountID and returns the new id.
	// Returns errs.ErrNotFound when the account does not exist.
	Create(ctx context.Context, accountID int64, last4digit, code, cardType string) (int64, error)
	// Update applies the present fields of patch to the card. Updating a
	// missing id is not an error; reassigning to a missing account returns
	// errs.ErrNotFound.
	Update(ctx context.Context, id int64, patch model.CardPatch) error
	// Delete removes a card by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	// UpdateFull atomically stores a new password digest for the account and
	// applies patch to the card, in a single transaction.
	UpdateFull(ctx context.Context, login, passwordDigest string, cardID int64, patch model.CardPatch) error
}
