package database

import (
    "errors"
    "strings"

    "github.com/jackc/pgx/v5/pgconn"
    "gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a duplicate-key failure. A
// non-empty column narrows the check to the constraint covering that
// column, so callers can tell a student_id collision from a generated
// permit-code collision.
func IsUniqueViolation(err error, column string) bool {
    if err == nil {
        return false
    }
    var pgErr *pgconn.PgError
    if errors.As(err, &pgErr) {
        if pgErr.Code != "23505" {
            return false
        }
        return column == "" || strings.Contains(pgErr.ConstraintName, column)
    }
    if errors.Is(err, gorm.ErrDuplicatedKey) {
        return column == ""
    }
    msg := err.Error()
    if strings.Contains(msg, "UNIQUE constraint failed") ||
        strings.Contains(msg, "duplicate key value") {
        return column == "" || strings.Contains(msg, column)
    }
    return false
}
