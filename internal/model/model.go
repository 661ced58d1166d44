// Package model defines domain entities used by services and repositories.
package model

import "time"

// Account is a login/password-authenticated owner of cards.
// The password is never stored in plaintext.
type Account struct {
	ID             int64  // PK, assigned by storage
	Login          string // unique, 6-128 chars
	PasswordDigest string // Argon2id, PHC-encoded
	CreatedAt      time.Time
}

// Card is a payment card record owned by exactly one account.
type Card struct {
	ID         int64  // PK, assigned by storage
	AccountID  int64  // FK -> account.id
	Last4Digit string // exactly 4 digits
	Code       string // 3-4 digits
	Type       string // free-form
}

// CardPatch is a partial card update. A nil field means "leave unchanged",
// which is distinct from present-but-empty.
type CardPatch struct {
	AccountID  *int64
	Last4Digit *string
	Code       *string
	Type       *string
}

// IsEmpty reports whether no field is present.
func (p CardPatch) IsEmpty() bool {
	return p.AccountID == nil && p.Last4Digit == nil && p.Code == nil && p.Type == nil
}
