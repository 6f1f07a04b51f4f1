// Package repository implements the storage ports on the shared
// database handle. Queries are built with squirrel so the same code runs
// against postgres and sqlite; every driver error is translated into the
// domain taxonomy before it leaves this package.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"taskvault/internal/core/domain"
)

// notFound translates the driver's empty-result error into the domain
// taxonomy so callers never see sql.ErrNoRows.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf(format, args...)
	}
	return err
}

// conflict catches unique-constraint violations from either engine. The
// services check uniqueness up front; this is the backstop for races.
func conflict(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return domain.Conflictf(format, args...)
	}

	return err
}
