// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Services depend on the interfaces declared here, so tests can swap in
// the in-memory implementation from the memstore subpackage.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/restaurant-pos/internal/sqlerr"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so the same repository
// code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NotFound returns the error repositories use for a missing row in table.
// The "table:" prefix lets sqlerr.HandleError name the entity.
func NotFound(table string) error {
	return fmt.Errorf("%s%s: %w", sqlerr.TablePrefix, table, pgx.ErrNoRows)
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// notFoundOr rewrites a bare pgx.ErrNoRows into NotFound(table).
func notFoundOr(err error, table string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(table)
	}
	return err
}

// expectOne turns a zero-row UPDATE or DELETE into NotFound(table).
func expectOne(tag pgconn.CommandTag, err error, table string) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(table)
	}
	return nil
}
