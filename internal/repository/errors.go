// Package repository defines the data access layer and the error values
// reused across repositories.  These sentinel values allow higher layers
// such as services to distinguish between different failure scenarios
// without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a lookup by key matches no row, or when
// the row exists but is not visible to the caller (e.g. another user's
// booking).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")

// notFound maps sql.ErrNoRows to ErrNotFound and leaves other errors as is.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation recognizes duplicate key errors from MySQL (1062) and
// SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}

// forUpdate returns the row-locking suffix for the dialect.  SQLite has no
// row locks; its single writer connection serializes transactions instead.
func forUpdate(db *sqlx.DB) string {
	if db.DriverName() == "mysql" {
		return " FOR UPDATE"
	}
	return ""
}
