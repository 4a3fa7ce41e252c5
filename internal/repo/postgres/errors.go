package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPreferenceNotFound = errors.New("preference not found")

	// ErrDuplicateKey reports a unique-constraint violation, ErrForeignKey a
	// reference to a missing profile. Any other database failure is wrapped
	// with fmt.Errorf and carries no sentinel.
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("referenced row is missing")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrDuplicateKey
	case pgForeignKeyViolation:
		return ErrForeignKey
	}
	return nil
}
