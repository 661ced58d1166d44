// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/asmirnov/cardvault/internal/model"
)

// AccountRepository provides CRUD access for accounts.
type AccountRepository interface {
	// Create inserts a new account and returns the storage-assigned id.
	// Returns errs.ErrAlreadyExists when the login is taken.
	Create(ctx context.Context, login, passwordDigest string) (int64, error)
	// GetByLogin loads an account by login.
	GetByLogin(ctx context.Context, login string) (*model.Account, error)
	// Delete removes an account by id. Deleting a missing id is not an error;
	// owned cards are removed with the account.
	Delete(ctx context.Context, id int64) error
	// UpdatePassword stores a new password digest for the login.
	UpdatePassword(ctx context.Context, login, passwordDigest string) error
}
