// Package service contains application services for accounts and cards.
package service

import (
	"context"
	"errors"

	pkgcrypto "github.com/asmirnov/cardvault/internal/crypto"
	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/limiter"
	"github.com/asmirnov/cardvault/internal/model"
	"github.com/asmirnov/cardvault/internal/repository"
	"github.com/asmirnov/cardvault/internal/validate"
)

// AccountService defines account lifecycle and credential verification operations.
type AccountService interface {
	// Authenticate verifies login/password and returns the account on match.
	Authenticate(ctx context.Context, login, password, ip string) (model.Account, error)
	// Create registers a new account and returns its id.
	Create(ctx context.Context, login, password string) (int64, error)
	// Delete removes an account and, with it, all owned cards. Idempotent.
	Delete(ctx context.Context, id int64) error
	// UpdatePassword verifies the current password and stores a new one.
	UpdatePassword(ctx context.Context, login, oldPassword, newPassword string) error
}

type AccountServiceImpl struct {
	accounts repository.AccountRepository
	lim      limiter.Limiter
}

// NewAccountService constructs AccountService with required dependencies.
func NewAccountService(accounts repository.AccountRepository, lim limiter.Limiter) *AccountServiceImpl {
	return &AccountServiceImpl{accounts: accounts, lim: lim}
}

// Authenticate applies rate limiting by (login, ip) and verifies credentials.
// Unknown login and wrong password fail identically with ErrUnauthorized so
// that login existence cannot be probed.
func (s *AccountServiceImpl) Authenticate(ctx context.Context, login, password, ip string) (model.Account, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, login, ipHash)
	if err != nil {
		return model.Account{}, err
	}
	if !allowed {
		return model.Account{}, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByLogin(ctx, login)
	if err != nil || !pkgcrypto.VerifyPassword(password, a.PasswordDigest) {
		if blocked, _, ferr := s.lim.Failure(ctx, login, ipHash); ferr == nil && blocked {
			return model.Account{}, errs.ErrRateLimited
		}
		// lookup errors and digest mismatches are indistinguishable
		return model.Account{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, login, ipHash)

	return *a, nil
}

// Create validates the login shape, hashes the password and inserts the
// account. Login uniqueness is enforced by storage and surfaces as
// errs.ErrAlreadyExists.
func (s *AccountServiceImpl) Create(ctx context.Context, login, password string) (int64, error) {
	if err := validate.Login(login); err != nil {
		return 0, err
	}
	if password == "" {
		return 0, errors.New("empty password")
	}
	digest, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.accounts.Create(ctx, login, digest)
}

// Delete removes the account by id. Missing ids succeed.
func (s *AccountServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.accounts.Delete(ctx, id)
}

// UpdatePassword requires the current password to verify before the new
// digest is stored.
func (s *AccountServiceImpl) UpdatePassword(ctx context.Context, login, oldPassword, newPassword string) error {
	if err := verifyCredentials(ctx, s.accounts, login, oldPassword); err != nil {
		return err
	}
	digest, err := pkgcrypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, login, digest)
}

// verifyCredentials checks login/password against the stored digest with a
// uniform ErrUnauthorized on any mismatch.
func verifyCredentials(ctx context.Context, accounts repository.AccountRepository, login, password string) error {
	a, err := accounts.GetByLogin(ctx, login)
	if err != nil || !pkgcrypto.VerifyPassword(password, a.PasswordDigest) {
		return errs.ErrUnauthorized
	}
	return nil
}
