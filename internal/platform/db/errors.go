package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the stores translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation returns the violated constraint name when err is a unique
// constraint violation.
func UniqueViolation(err error) (string, bool) {
	return constraintFor(err, codeUniqueViolation)
}

// ForeignKeyViolation returns the violated constraint name when err is a
// foreign key violation.
func ForeignKeyViolation(err error) (string, bool) {
	return constraintFor(err, codeForeignKeyViolation)
}

// CheckViolation returns the violated constraint name when err is a check
// constraint violation.
func CheckViolation(err error) (string, bool) {
	return constraintFor(err, codeCheckViolation)
}

func constraintFor(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != code {
		return "", false
	}
	return pgErr.ConstraintName, true
}
