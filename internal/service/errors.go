package service

import (
	"errors"
	"fmt"

	"fintrack/internal/repository"
)

// Domain errors surfaced to handlers.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSessionNotFound  = errors.New("session not found")
	ErrRecordIndex      = errors.New("record index out of range")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrEmptyUsername    = errors.New("username is empty")
	ErrInvalidUsername  = errors.New("username must not contain '/'")
	ErrEmptyPassword    = errors.New("password is empty")
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrUserExists = repository.ErrAlreadyExists
	ErrConflict   = repository.ErrConflict
)

// storeErr marks a repository failure as an outage unless it is one of
// the repository sentinels the caller can act on.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrAlreadyExists) || errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func invalidRecord(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}
