package apperr

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey signals a uniqueness constraint hit. Expected during
	// re-ingestion; callers convert it into an idempotent no-op.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKeyViolation signals an insert referencing a nonexistent
	// parent row. Fatal to the ingestion attempt, not to the process.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Translate maps storage-driver errors onto the sentinels above. Raw driver
// errors are never allowed past the repo boundary.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	default:
		return err
	}
}
