package service

import (
	"errors"
	"fmt"

	"wallet-ledger/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrReference        = errors.New("referenced record does not exist")
	ErrConflict         = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// notFound turns a storage miss into ErrNotFound naming the record; other errors pass through.
func notFound(err error, what string, id any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
