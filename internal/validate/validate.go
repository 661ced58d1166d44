// Package validate implements field-shape checks for logins and card fields.
package validate

import "fmt"

// Kind classifies a validation failure.
type Kind string

const (
	// KindLength means the value's length is outside the allowed range.
	KindLength Kind = "length"
	// KindNotDigits means the value contains a non-digit character.
	KindNotDigits Kind = "not_digits"
)

// ValidationError is a field-level shape violation.
type ValidationError struct {
	Field string
	Kind  Kind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindNotDigits:
		return fmt.Sprintf("%s contains non-digit character(s)", e.Field)
	default:
		return fmt.Sprintf("%s length error", e.Field)
	}
}

// Length fails when len(value) is outside [min, max].
func Length(value, field string, min, max int) error {
	if len(value) < min || len(value) > max {
		return &ValidationError{Field: field, Kind: KindLength}
	}
	return nil
}

// DigitsOnly fails when any byte of value is not a decimal digit.
// An empty value passes; length bounds are checked separately.
func DigitsOnly(value, field string) error {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return &ValidationError{Field: field, Kind: KindNotDigits}
		}
	}
	return nil
}

// Last4Digit checks a card's last-4-digits field: exactly 4 digits.
func Last4Digit(v string) error {
	const field = "last4digit"
	if err := Length(v, field, 4, 4); err != nil {
		return err
	}
	return DigitsOnly(v, field)
}

// Code checks a card security code: 3-4 digits.
func Code(v string) error {
	const field = "code"
	if err := Length(v, field, 3, 4); err != nil {
		return err
	}
	return DigitsOnly(v, field)
}

// Login checks an account login: 6-128 characters.
func Login(v string) error {
	return Length(v, "login", 6, 128)
}
