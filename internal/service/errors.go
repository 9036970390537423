package service

import (
	"context"
	"errors"
	"fmt"

	"kanban-board/internal/repository"
)

// Error taxonomy shared by the service and the HTTP layer. Every error the
// service returns wraps exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
	ErrValidationFailed  = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsTimeout reports whether err was caused by the request deadline or a
// cancelled request.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrForbidden)
}

// translate maps repository sentinels onto the service taxonomy and passes
// everything else through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrBoardNotFound):
		return fmt.Errorf("board %w", ErrNotFound)
	case errors.Is(err, repository.ErrColumnNotFound):
		return fmt.Errorf("column %w", ErrNotFound)
	case errors.Is(err, repository.ErrCardNotFound):
		return fmt.Errorf("card %w", ErrNotFound)
	}
	return err
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
