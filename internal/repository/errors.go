package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the dispatch store reacts to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool { return hasCode(err, codeUniqueViolation) }

// IsMissingReference reports a foreign key violation, e.g. an assignment for an unknown order.
func IsMissingReference(err error) bool { return hasCode(err, codeForeignKeyViolation) }

// IsCheckViolation reports a CHECK constraint violation, e.g. a load outside 0..3.
func IsCheckViolation(err error) bool { return hasCode(err, codeCheckViolation) }

// IsNotFound reports that a single-row query matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
