package services

import (
	"errors"
	"fmt"

	"github.com/LovationAdmin/birthday-api/repositories"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("persistence failure")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrTwoFactorRequired is returned by Login when the account has 2FA
	// enabled and no code was supplied.
	ErrTwoFactorRequired = errors.New("2FA code required")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// storeErr classifies a repository error. Missing rows become ErrNotFound,
// unique violations ErrConflict, anything else ErrPersistence.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict), errors.Is(err, ErrPersistence),
		errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrUniqueViolation):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
}
