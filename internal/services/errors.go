// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports caller mistakes: missing fields, duplicates,
// quantities exceeding available stock on the sale path. Nothing is
// mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReferentialProtectionError is returned when deleting a record that other
// records still reference. The delete is refused, never cascaded.
type ReferentialProtectionError struct {
	Resource string
	Message  string
}

func (e *ReferentialProtectionError) Error() string {
	return e.Message
}

// NotFoundError identifies a missing record by resource name.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// isUniqueViolation recognizes unique-constraint failures from Postgres
// (SQLSTATE 23505) and from the SQLite databases used in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
