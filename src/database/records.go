package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khabaroff/webtestkit/src/attrs"
	"github.com/khabaroff/webtestkit/src/records"
)

// Row addresses one row by primary key. It implements records.Reloader.
type Row struct {
	Pool  *pgxpool.Pool
	Table string
	ID    any
}

// Reload checks that the row still exists
func (r Row) Reload(ctx context.Context) error {
	var one int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = $1", pgx.Identifier{r.Table}.Sanitize())
	err := r.Pool.QueryRow(ctx, query, r.ID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", r.Table, r.ID, records.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to reload %s %v: %w", r.Table, r.ID, err)
	}
	return nil
}

// TableCounter counts the rows of a table. It implements records.Counter.
type TableCounter struct {
	Pool  *pgxpool.Pool
	Table string
}

// Count returns the current number of rows
func (tc TableCounter) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{tc.Table}.Sanitize())
	if err := tc.Pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", tc.Table, err)
	}
	return count, nil
}

// Scope is a SQL condition over a table. A record is in scope when the row
// with the record's id attribute satisfies Where.
type Scope struct {
	Pool  *pgxpool.Pool
	Table string
	Where string
	Args  []any
}

// Contains evaluates the scope for record
func (s Scope) Contains(ctx context.Context, record any) (bool, error) {
	id, err := attrs.Get(record, "id")
	if err != nil {
		return false, fmt.Errorf("scope %s: %w", s.Table, err)
	}

	args := append([]any{id}, s.Args...)
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND (%s))",
		pgx.Identifier{s.Table}.Sanitize(), s.Where)

	var exists bool
	if err := s.Pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to evaluate scope on %s: %w", s.Table, err)
	}
	return exists, nil
}

var (
	_ records.Reloader = Row{}
	_ records.Counter  = TableCounter{}
	_ records.Scope    = Scope{}
)
