// Package database holds the engine-agnostic handle the repositories run
// on: a database/sql pool plus a squirrel builder configured for the
// engine's placeholder format. Openers live in the postgres and sqlite
// subpackages.
package database

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

type DB struct {
	*sql.DB
	Builder sq.StatementBuilderType
}

func New(sqlDB *sql.DB, builder sq.StatementBuilderType) *DB {
	return &DB{DB: sqlDB, Builder: builder}
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
// Lifecycle mutations that touch several tables go through here so the
// write is a single atomic unit.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
