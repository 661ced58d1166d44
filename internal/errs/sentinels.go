// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed credential verification.
	// Unknown login and wrong password are deliberately indistinguishable.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (login taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrEmptyUpdate indicates an update request carrying no fields.
	ErrEmptyUpdate = errors.New("empty update")
)
