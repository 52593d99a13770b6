package database

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so query funcs can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrNoRows is re-exported so callers don't need to import database/sql.
var ErrNoRows = sql.ErrNoRows

// IsNoRows reports whether err means the row was absent.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
