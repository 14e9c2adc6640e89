package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate into sentinel errors.
const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsInvalidText reports whether err comes from a malformed literal, such as
// a non-UUID string compared against a uuid column.
func IsInvalidText(err error) bool {
	return pgCode(err) == pgInvalidText
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
