package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tasktracker/internal/ports"
)

// Common repository errors
var (
	ErrTaskNotFound       = fmt.Errorf("%w: task", ports.ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("%w: user", ports.ErrNotFound)
	ErrCommentNotFound    = fmt.Errorf("%w: comment", ports.ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("%w: assignment", ports.ErrNotFound)

	// ErrEmailExists is returned when registering an address that is taken.
	ErrEmailExists = fmt.Errorf("%w: email", ports.ErrDuplicate)

	// ErrInvalidTask is returned for an update that would corrupt the row.
	ErrInvalidTask = fmt.Errorf("%w: task", ports.ErrInvalidEntity)

	// ErrStaleTask is returned when a task row changed since it was read.
	ErrStaleTask = fmt.Errorf("%w: task", ports.ErrVersionConflict)
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// mapError translates driver errors into port errors. notFound is returned
// for gorm.ErrRecordNotFound.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %s", ports.ErrDuplicate, pgErr.ConstraintName)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s)", ports.ErrInvalidEntity, pgErr.ConstraintName)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s)", ports.ErrInvalidEntity, pgErr.ConstraintName)
		}
	}
	return err
}
