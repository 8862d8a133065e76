package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"paralympics-api/internal/metrics"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique key
	ErrDuplicate = errors.New("already exists")

	// ErrMissingReference is returned when an insert references a row that does not exist
	ErrMissingReference = errors.New("referenced row does not exist")

	// ErrIntegrity is returned when a lookup by primary key matches more than one row
	ErrIntegrity = errors.New("lookup matched more than one row")
)

// PostgreSQL SQLSTATE codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// classify maps driver constraint errors onto the store sentinels. Errors it
// does not recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrDuplicate
		case pqForeignKeyViolation:
			return ErrMissingReference
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrMissingReference
		}
	}

	// Extended result codes are not always reported, fall back to the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrMissingReference
	}
	return err
}

// errorKind labels err for the store error counter
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	default:
		return "other"
	}
}

// failed counts err against its kind and returns it unchanged
func failed(err error) error {
	metrics.StoreErrorsTotal.WithLabelValues(errorKind(err)).Inc()
	return err
}
