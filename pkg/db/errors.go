package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation from
// Postgres (pgx or lib/pq) or SQLite. When constraints are given the violated
// constraint must be one of them.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && constraintMatches(pgErr.ConstraintName, constraints)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && constraintMatches(pqErr.Constraint, constraints)
	}

	// sqlite reports the violated columns rather than the index name
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if strings.Contains(msg, c) {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation from
// Postgres (pgx or lib/pq) or SQLite.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func constraintMatches(name string, constraints []string) bool {
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if c == name {
			return true
		}
	}
	return false
}
