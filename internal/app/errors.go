package app

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP boundary maps onto status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("invalid input")
)

// invalidf wraps ErrValidation with a caller-facing message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
