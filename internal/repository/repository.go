// Package repository holds the SQL for users, categories and items.
//
// Queries are built with squirrel and scanned with scany's pgxscan. Every
// repository runs against a Querier, so tests can swap the pool for pgxmock.
package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("repository: not found")

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// getOne runs a single-row select and maps "no rows" to ErrNotFound.
func getOne[T any](ctx context.Context, q Querier, b sq.Sqlizer) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var dst T
	if err := pgxscan.Get(ctx, q, &dst, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dst, nil
}

// selectAll runs a select and scans every row. The result is never nil.
func selectAll[T any](ctx context.Context, q Querier, b sq.Sqlizer) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	dst := []T{}
	if err := pgxscan.Select(ctx, q, &dst, query, args...); err != nil {
		return nil, err
	}
	return dst, nil
}

// exec runs a statement and returns the affected row count.
func exec(ctx context.Context, q Querier, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
