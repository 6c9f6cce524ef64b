package mrz

import (
	"errors"
	"fmt"
)

// Failure kinds. Every *Error unwraps to exactly one of them.
var (
	ErrUnknownFormat    = errors.New("unknown document format")
	ErrInvalidFormat    = errors.New("invalid document format")
	ErrMissingBirthDate = errors.New("no birthdate provided")
	ErrCheckDigit       = errors.New("check digit mismatch")
)

// Error describes why a block of MRZ text was rejected. Field is set for
// grammar and check digit failures ("overall" for the composite digit).
type Error struct {
	Kind   error
	Format Format
	Field  string
}

// Error returns the user-facing explanation.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnknownFormat:
		return "Unknown document format"
	case ErrInvalidFormat:
		return fmt.Sprintf("Invalid %s document format", e.Format)
	case ErrMissingBirthDate:
		return "No birthdate provided"
	case ErrCheckDigit:
		return fmt.Sprintf("Invalid %s check digit in %s document", e.Field, e.Format)
	default:
		return fmt.Sprintf("%v (%s)", e.Kind, e.Format)
	}
}

// Unwrap exposes the failure kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}
